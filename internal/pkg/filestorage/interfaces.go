// Package filestorage archives generated documents on the local disk or in an S3-compatible bucket.
package filestorage

import (
	"context"
	"fmt"
	"strings"
)

// Storage defines the archive operations used by the certificate issuer
type Storage interface {
	// Save stores data under name and returns where it was written
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// Drivers
const (
	DriverNone  = "none"
	DriverLocal = "local"
	DriverMinio = "minio"
)

// Options selects and configures a storage driver
type Options struct {
	Driver    string
	LocalPath string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// New builds the storage for opts.Driver. The none driver yields a nil Storage.
func New(ctx context.Context, opts Options) (Storage, error) {
	switch strings.ToLower(opts.Driver) {
	case "", DriverNone:
		return nil, nil
	case DriverLocal:
		ls, err := NewLocalStorage(opts.LocalPath)
		if err != nil {
			return nil, err
		}
		return ls, nil
	case DriverMinio:
		ms, err := NewMinioStorage(ctx, opts)
		if err != nil {
			return nil, err
		}
		return ms, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
