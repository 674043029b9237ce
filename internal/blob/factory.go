package blob

import (
	"context"
	"fmt"
	"os"
)

// Open selects a Store implementation using environment variables.
//
//	SENSORCORE_BLOB_DRIVER: fs|s3|memory (default fs)
//	SENSORCORE_BLOB_FS_ROOT: directory root when driver=fs (default ./sensorcore-blobs)
//	(S3 specific variables documented in s3.go)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("SENSORCORE_BLOB_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		root := os.Getenv("SENSORCORE_BLOB_FS_ROOT")
		return NewFSStore(root)
	case DriverS3:
		return OpenS3FromEnv(ctx)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
