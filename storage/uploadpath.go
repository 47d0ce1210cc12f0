package storage

import (
	"github.com/SandiRizqi/procurement-backend/utils"
)

// DefaultEnvironment is the storage-key prefix used when no deployment
// environment is configured.
const DefaultEnvironment = "dev"

// PathConfig carries the deployment settings the upload-path resolver needs.
// It is passed in explicitly at call time; the resolver never reads process
// environment itself.
type PathConfig struct {
	Environment string
}

// PathConfigFromEnv builds a PathConfig from the ENVIRONMENT variable.
func PathConfigFromEnv() PathConfig {
	return PathConfig{Environment: utils.GetEnv("ENVIRONMENT", DefaultEnvironment)}
}

func (c PathConfig) environment() string {
	if c.Environment == "" {
		return DefaultEnvironment
	}
	return c.Environment
}

// VendorDocumentKey computes the storage key for a vendor-level document:
//
//	{env}/vendors/{safe vendor name}/{filename}
//
// The original filename is kept verbatim as the final segment, so uploading
// the same filename for the same vendor overwrites the previous object.
func VendorDocumentKey(cfg PathConfig, vendorName, filename string) string {
	return cfg.environment() + "/vendors/" + utils.SafeName(vendorName) + "/" + filename
}

// PersonDocumentKey computes the storage key for a person-level document:
//
//	{env}/vendors/{safe vendor name}/persons/{safe person name}/{filename}
func PersonDocumentKey(cfg PathConfig, vendorName, personName, filename string) string {
	return cfg.environment() + "/vendors/" + utils.SafeName(vendorName) +
		"/persons/" + utils.SafeName(personName) + "/" + filename
}

// ParticipantFileKey computes the storage key for a bid file submitted by a
// vendor in a procurement:
//
//	{env}/vendors/{safe vendor name}/{safe project name}/{filename}
func ParticipantFileKey(cfg PathConfig, vendorName, projectName, filename string) string {
	return cfg.environment() + "/vendors/" + utils.SafeName(vendorName) +
		"/" + utils.SafeName(projectName) + "/" + filename
}
