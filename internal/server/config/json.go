package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/whybudget/internal/flagx"
	"github.com/dmitrijs2005/whybudget/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file. Duration
// fields accept both "10m" strings and integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc"`
	StorageBackend               string         `json:"storage_backend"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	SessionTokenValidityDuration timex.Duration `json:"session_token_validity_duration"`
	OTPValidityDuration          timex.Duration `json:"otp_validity_duration"`
	NotifierBackend              string         `json:"notifier_backend"`
	BrevoAPIKey                  string         `json:"brevo_api_key"`
	BrevoEndpoint                string         `json:"brevo_endpoint"`
	SenderName                   string         `json:"sender_name"`
	SenderEmail                  string         `json:"sender_email"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	ExportLinkValidityDuration   timex.Duration `json:"export_link_validity_duration"`
	LogBackend                   string         `json:"log_backend"`
	LogFormat                    string         `json:"log_format"`
}

// parseJson loads the file named by -c/-config (or CONFIG) into config.
// Only keys present with non-zero values override the current settings.
// An unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFilePath()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.SessionTokenValidityDuration.Duration != 0 {
		config.SessionTokenValidityDuration = c.SessionTokenValidityDuration.Duration
	}
	if c.OTPValidityDuration.Duration != 0 {
		config.OTPValidityDuration = c.OTPValidityDuration.Duration
	}
	setString(&config.NotifierBackend, c.NotifierBackend)
	setString(&config.BrevoAPIKey, c.BrevoAPIKey)
	setString(&config.BrevoEndpoint, c.BrevoEndpoint)
	setString(&config.SenderName, c.SenderName)
	setString(&config.SenderEmail, c.SenderEmail)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.ExportLinkValidityDuration.Duration != 0 {
		config.ExportLinkValidityDuration = c.ExportLinkValidityDuration.Duration
	}
	setString(&config.LogBackend, c.LogBackend)
	setString(&config.LogFormat, c.LogFormat)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
