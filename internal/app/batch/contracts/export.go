package contracts

import "context"

// ExportUploader ships a finished export file to remote storage.
type ExportUploader interface {
	Upload(ctx context.Context, localPath, objectName string) error
}
