package claims

import (
	"context"
	"io"
	"path"

	"claimflow/backend/internal/blobstore"
	"claimflow/backend/internal/config"
	"claimflow/backend/internal/models"
	"claimflow/backend/internal/storage"

	"go.uber.org/zap"
)

// Upload is one candidate file handed to the attachment coordinator.
type Upload struct {
	// Filename is the client-supplied original name.
	Filename string
	// Size is the declared size in bytes.
	Size int64
	// ContentType is the declared MIME type.
	ContentType string
	// Content is the file's bytes. Read exactly once, in input order.
	Content io.Reader
}

type storedBlob struct {
	dir  string
	name string
}

// blobJournal records the blobs written during one workflow operation.
// The blob store has no transactions, so consistency with the database
// is kept by compensation: discard deletes everything the journal holds
// when the surrounding database transaction fails, and release forgets
// it once the commit succeeded.
type blobJournal struct {
	store  blobstore.BlobStore
	logger *zap.Logger
	blobs  []storedBlob
}

func newBlobJournal(store blobstore.BlobStore, logger *zap.Logger) *blobJournal {
	return &blobJournal{store: store, logger: logger}
}

func (j *blobJournal) add(dir, name string) {
	j.blobs = append(j.blobs, storedBlob{dir: dir, name: name})
}

// discard deletes every journaled blob, best-effort. A blob that cannot
// be deleted is only logged: an orphaned blob is recoverable by a later
// cleanup sweep, whereas a database row pointing at a missing blob is
// not, so deletion failures never mask the original error.
func (j *blobJournal) discard() {
	for _, b := range j.blobs {
		if err := j.store.Delete(b.dir, b.name); err != nil {
			j.logger.Warn("orphaned blob left after rollback",
				zap.String("dir", b.dir),
				zap.String("name", b.name),
				zap.Error(err))
		}
	}
	j.blobs = nil
}

// release forgets the journaled blobs. Called only after the database
// transaction committed, at which point every blob is referenced by
// exactly one document row.
func (j *blobJournal) release() {
	j.blobs = nil
}

// attachDocuments stores each file's bytes in the blob store and writes
// its metadata row inside the caller's transaction, in input order. On
// the first failure it stops and returns a DocumentError naming the
// file; the caller's transaction rollback removes the rows and the
// caller's journal discard removes the blobs, so the batch is
// all-or-nothing.
func (s *Service) attachDocuments(
	ctx context.Context,
	tx storage.Storage,
	journal *blobJournal,
	claim *models.Claim,
	uploaderID string,
	files []Upload,
	review bool,
) ([]models.Document, error) {
	prefix := config.ClaimantUploadPrefix
	if review {
		prefix = config.ReviewerUploadPrefix
	}
	dir := path.Join(prefix, s.now().Format(config.UploadDateLayout))

	docs := make([]models.Document, 0, len(files))
	for _, f := range files {
		name := blobstore.GeneratedName(f.Filename)

		size, err := s.blobs.Store(ctx, dir, name, f.Content)
		if err != nil {
			return nil, &DocumentError{Filename: f.Filename, Err: err}
		}
		journal.add(dir, name)

		doc := models.Document{
			ClaimID:          claim.ID,
			UploadedByUserID: uploaderID,
			OriginalFilename: f.Filename,
			StoredFilename:   name,
			FilePath:         dir,
			FileSize:         size,
			MimeType:         f.ContentType,
			IsReviewDocument: review,
		}
		if err := tx.CreateDocument(ctx, &doc); err != nil {
			return nil, &DocumentError{Filename: f.Filename, Err: err}
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
