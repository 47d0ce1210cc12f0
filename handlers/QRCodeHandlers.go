package handlers

import (
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
	"gorm.io/gorm"

	"github.com/SandiRizqi/procurement-backend/services"
	"github.com/SandiRizqi/procurement-backend/utils"
)

// addLabel draws one text line onto the card image.
func addLabel(img *image.RGBA, x, y int, label string, bold bool) {
	col := color.RGBA{0, 0, 0, 255}
	face := inconsolata.Regular8x16
	if bold {
		col = color.RGBA{30, 30, 30, 255}
		face = inconsolata.Bold8x16
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(x * 64),
			Y: fixed.Int26_6(y * 64),
		},
	}
	d.DrawString(label)
}

// truncateLabel keeps a line within the card width.
func truncateLabel(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// GenerateDocumentQRCode renders a printable JPEG card for one stored
// document: a QR code of a freshly signed download URL with the document
// metadata underneath. The URL inside the code expires with the signature.
// @Summary Generate document QR card as JPEG
// @Tags Documents
// @Produce image/jpeg
// @Param kind path string true "vendor, person or participant"
// @Param id path int true "Document or participant ID"
// @Success 200 {file} file "JPEG image"
// @Failure 404 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /api/documents/{kind}/{id}/qr [get]
func GenerateDocumentQRCode(gdb *gorm.DB, docs *services.DocumentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind := c.Param("kind")
		fileKey, err := documentFileKey(gdb, kind, c.Param("id"))
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch document"})
			return
		}
		if fileKey == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "document has no stored file"})
			return
		}

		ctx, cancel := utils.GetDefaultQueryContext(c.Request.Context())
		defer cancel()
		signedURL, err := docs.SignedURL(ctx, fileKey)
		if err != nil {
			log.Printf("presign failed for key %q: %v", fileKey, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to sign document URL"})
			return
		}

		qr, err := qrcode.New(signedURL, qrcode.Medium)
		if err != nil {
			c.String(http.StatusInternalServerError, "QR code generation failed")
			return
		}
		qrImg := qr.Image(512)

		qrSize := qrImg.Bounds().Dy()
		padding := 30
		lineHeight := 28
		textAreaHeight := 3*lineHeight + padding
		totalHeight := qrSize + padding + textAreaHeight

		combinedImg := image.NewRGBA(image.Rect(0, 0, qrSize, totalHeight))
		draw.Draw(combinedImg, combinedImg.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)
		draw.Draw(combinedImg, image.Rect(0, 0, qrSize, qrSize), qrImg, image.Point{}, draw.Src)

		separatorY := qrSize + padding/2
		for x := 0; x < qrSize; x++ {
			combinedImg.Set(x, separatorY, color.RGBA{200, 200, 200, 255})
		}

		startY := qrSize + padding + lineHeight
		xPos := 20

		addLabel(combinedImg, xPos, startY, "Document:", true)
		addLabel(combinedImg, xPos+120, startY, truncateLabel(fileKey, 50), false)
		addLabel(combinedImg, xPos, startY+lineHeight, "Type:", true)
		addLabel(combinedImg, xPos+120, startY+lineHeight, kind, false)
		addLabel(combinedImg, xPos, startY+2*lineHeight, "Issued by:", true)
		addLabel(combinedImg, xPos+120, startY+2*lineHeight, truncateLabel(utils.CompanyName(), 50), false)

		c.Header("Content-Type", "image/jpeg")
		c.Header("Content-Disposition", "inline; filename=document_qr.jpg")
		if err := jpeg.Encode(c.Writer, combinedImg, &jpeg.Options{Quality: 90}); err != nil {
			log.Printf("Failed to encode QR JPEG: %v", err)
		}
	}
}
