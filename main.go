// @title           Procurement API
// @version         1.0
// @description     Procurement Backend API - vendors, projects, procurements and document storage.

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /

// @schemes http https
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/SandiRizqi/procurement-backend/handlers"
	"github.com/SandiRizqi/procurement-backend/services"
	"github.com/SandiRizqi/procurement-backend/storage"
	"github.com/SandiRizqi/procurement-backend/utils"
)

var cronRunning int32

func CORSConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(
		utils.GetEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ",")
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Content-Type", "Content-Length", "Accept-Encoding",
		"Accept", "Origin", "X-Requested-With", "Authorization", "X-User",
		"Cache-Control", "Referer", "User-Agent",
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD", "PATCH"}
	corsConfig.ExposeHeaders = []string{"Content-Length", "Content-Type", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	return corsConfig
}

// buildSwaggerDoc assembles a minimal swagger 2.0 document from the live gin
// route table, so the UI always matches what is actually registered.
func buildSwaggerDoc(routes gin.RoutesInfo) ([]byte, error) {
	paths := map[string]map[string]interface{}{}
	for _, route := range routes {
		if strings.HasPrefix(route.Path, "/swagger") {
			continue
		}
		// gin ":id" params become swagger "{id}" params
		path := route.Path
		var params []map[string]interface{}
		for _, seg := range strings.Split(route.Path, "/") {
			if strings.HasPrefix(seg, ":") {
				name := strings.TrimPrefix(seg, ":")
				path = strings.Replace(path, seg, "{"+name+"}", 1)
				params = append(params, map[string]interface{}{
					"name": name, "in": "path", "required": true, "type": "string",
				})
			}
		}
		if paths[path] == nil {
			paths[path] = map[string]interface{}{}
		}
		op := map[string]interface{}{
			"summary":   route.Handler,
			"responses": map[string]interface{}{"200": map[string]interface{}{"description": "OK"}},
		}
		if len(params) > 0 {
			op["parameters"] = params
		}
		paths[path][strings.ToLower(route.Method)] = op
	}

	doc := map[string]interface{}{
		"swagger": "2.0",
		"info": map[string]interface{}{
			"title":       "Procurement API",
			"version":     "1.0",
			"description": "Procurement Backend API - vendors, projects, procurements and document storage.",
		},
		"basePath": "/",
		"paths":    paths,
	}
	return json.MarshalIndent(doc, "", "  ")
}

func main() {
	db := storage.InitDB()
	gdb := storage.InitGormDB()

	store, err := storage.NewS3StoreFromEnv(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}
	docs := services.NewDocumentService(store, storage.PathConfigFromEnv())

	// Daily expiry reminder, default 07:30 server time.
	c := cron.New(
		cron.WithLogger(cron.VerbosePrintfLogger(log.New(os.Stdout, "cron: ", log.LstdFlags))),
	)
	_, err = c.AddFunc(utils.GetEnv("EXPIRY_CRON", "30 7 * * *"), func() {
		if !atomic.CompareAndSwapInt32(&cronRunning, 0, 1) {
			log.Println("Previous expiry scan still running. Skipping this run.")
			return
		}
		defer atomic.StoreInt32(&cronRunning, 0)

		log.Println("Starting document expiry scan")
		if err := services.RunExpiryReminders(db); err != nil {
			log.Printf("Document expiry scan failed: %v", err)
			return
		}
		log.Println("Document expiry scan completed")
	})
	if err != nil {
		log.Fatalf("Failed to schedule expiry cron job: %v", err)
	}
	c.Start()

	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20

	r.Use(cors.New(CORSConfig()))

	healthCheck := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	r.GET("/", healthCheck)
	r.GET("/api/health", healthCheck)

	// ==================== VENDORS ====================
	r.POST("/api/create_vendor", handlers.CreateVendor(db))
	r.PUT("/api/update_vendor/:id", handlers.UpdateVendor(db))
	r.DELETE("/api/delete_vendor/:id", handlers.DeleteVendor(db))
	r.GET("/api/vendors", handlers.GetAllVendors(db))
	r.GET("/api/vendor_fetch/:id", handlers.FetchVendor(gdb, docs))

	// ==================== PERSONS ====================
	r.POST("/api/create_person", handlers.CreatePerson(db))
	r.PUT("/api/update_person/:id", handlers.UpdatePerson(db))
	r.DELETE("/api/delete_person/:id", handlers.DeletePerson(db))
	r.GET("/api/persons", handlers.GetAllPersons(db))
	r.GET("/api/person_fetch/:id", handlers.FetchPerson(gdb, docs))

	// ==================== PROJECTS ====================
	r.POST("/api/project_create", handlers.CreateProject(db))
	r.PUT("/api/project_update/:id", handlers.UpdateProject(db))
	r.DELETE("/api/project_delete/:id", handlers.DeleteProject(db))
	r.GET("/api/projects", handlers.FetchAllProjects(db))
	r.GET("/api/project_fetch/:id", handlers.FetchProject(db))
	r.POST("/api/projects/mark_status", handlers.MarkProjectsStatus(db))

	// ==================== PROCUREMENTS ====================
	r.POST("/api/procurement_create", handlers.CreateProcurement(gdb, db))
	r.PUT("/api/procurement_update/:id", handlers.UpdateProcurement(gdb, db))
	r.DELETE("/api/procurement_delete/:id", handlers.DeleteProcurement(gdb, db))
	r.GET("/api/procurements", handlers.GetAllProcurements(gdb))
	r.GET("/api/procurement_fetch/:id", handlers.FetchProcurement(gdb, docs))
	r.GET("/api/procurement_pdf/:id", handlers.GenerateProcurementPDF(db))
	r.GET("/api/procurement/:id/participants", handlers.GetAllParticipants(gdb, docs))

	// ==================== PARTICIPANTS ====================
	r.POST("/api/participant_create", handlers.CreateParticipant(gdb, db))
	r.PUT("/api/participant_update/:id", handlers.UpdateParticipant(gdb, db))
	r.DELETE("/api/participant_delete/:id", handlers.DeleteParticipant(gdb, db, docs))
	r.POST("/api/participant_file_upload/:id", handlers.UploadParticipantFile(gdb, db, docs))

	// ==================== DOCUMENTS ====================
	r.POST("/api/vendor_document_upload/:id", handlers.UploadVendorDocument(gdb, db, docs))
	r.POST("/api/person_document_upload/:id", handlers.UploadPersonDocument(gdb, db, docs))
	r.DELETE("/api/vendor_document/:id", handlers.DeleteVendorDocument(gdb, db, docs))
	r.DELETE("/api/person_document/:id", handlers.DeletePersonDocument(gdb, db, docs))
	r.GET("/api/documents/:kind/:id/signed_url", handlers.GetSignedURL(gdb, docs))
	r.GET("/api/documents/:kind/:id/qr", handlers.GenerateDocumentQRCode(gdb, docs))

	// ==================== DASHBOARD & REPORTS ====================
	r.GET("/api/dashboard", handlers.GetDashboard(db))
	r.GET("/api/expiring_documents", handlers.GetExpiringDocuments(db))
	r.GET("/api/activity_logs", handlers.GetActivityLogs(db))

	// ==================== EXPORT ====================
	r.GET("/api/export_excel_projects", handlers.ExportProjectsExcel(db))
	r.GET("/api/export_csv_participants/:id", handlers.ExportParticipantsCSV(db))

	// Swagger UI; doc.json is assembled from the route table at startup.
	swaggerDoc, err := buildSwaggerDoc(r.Routes())
	if err != nil {
		log.Fatalf("Failed to build swagger doc: %v", err)
	}
	r.GET("/swagger/*any", func(c *gin.Context) {
		if c.Param("any") == "/doc.json" {
			c.Header("Content-Type", "application/json")
			c.String(http.StatusOK, string(swaggerDoc))
			return
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"))(c)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "9000"
	}
	portInt, err := strconv.Atoi(port)
	if err != nil {
		log.Fatalf("Invalid PORT environment variable: %s. Must be a number.", port)
	}
	if portInt < 0 || portInt > 65535 {
		log.Fatalf("Invalid PORT: %d. Must be between 0 and 65535.", portInt)
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exiting")
}
