package cmd

import (
	"errors"
	"fmt"
	"strings"
)

// Static errors for configuration validation
var (
	ErrTreeFileRequired     = errors.New("ttree file is required")
	ErrNTupleFileRequired   = errors.New("rntuple file is required")
	ErrTreeNameRequired     = errors.New("ttree name is required")
	ErrNTupleNameRequired   = errors.New("rntuple name is required")
	ErrDatasetNameInvalid   = errors.New("dataset name must not contain whitespace")
	ErrOutputFormatInvalid  = errors.New("output format must be one of: text, json")
	ErrS3CredentialsMissing = errors.New("s3 access key and secret key are required for s3:// locations")
)

// S3Config carries the S3 connection settings for s3:// inputs
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// CheckConfig is the resolved configuration of one check run
type CheckConfig struct {
	TreeFile     string
	NTupleFile   string
	TreeName     string
	NTupleName   string
	Verbose      bool
	OutputFormat string // text, json
	OutputFile   string
	S3           S3Config
	Debug        bool
	LogFormat    string
}

// isValidDatasetName rejects empty and whitespace-carrying dataset names
func isValidDatasetName(name string) bool {
	return name != "" && !strings.ContainsAny(name, " \t\n")
}

// isValidOutputFormat validates the output format
func isValidOutputFormat(format string) bool {
	validFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	return validFormats[format]
}

// usesS3 reports whether a location needs S3 credentials
func usesS3(location string) bool {
	return strings.HasPrefix(location, "s3://")
}

func (c *CheckConfig) Validate() error {
	if c.TreeFile == "" {
		return ErrTreeFileRequired
	}
	if c.NTupleFile == "" {
		return ErrNTupleFileRequired
	}
	if c.TreeName == "" {
		return ErrTreeNameRequired
	}
	if c.NTupleName == "" {
		return ErrNTupleNameRequired
	}

	if !isValidDatasetName(c.TreeName) {
		return fmt.Errorf("%w: %q", ErrDatasetNameInvalid, c.TreeName)
	}
	if !isValidDatasetName(c.NTupleName) {
		return fmt.Errorf("%w: %q", ErrDatasetNameInvalid, c.NTupleName)
	}

	if !isValidOutputFormat(c.OutputFormat) {
		return fmt.Errorf("%w: '%s'", ErrOutputFormatInvalid, c.OutputFormat)
	}

	if usesS3(c.TreeFile) || usesS3(c.NTupleFile) {
		if c.S3.AccessKey == "" || c.S3.SecretKey == "" {
			return ErrS3CredentialsMissing
		}
	}

	return nil
}
