package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/jarvault/internal/common"
	"github.com/dmitrijs2005/jarvault/internal/cryptox"
	"github.com/dmitrijs2005/jarvault/internal/dbx"
	"github.com/dmitrijs2005/jarvault/internal/logging"
	"github.com/dmitrijs2005/jarvault/internal/server/config"
	"github.com/dmitrijs2005/jarvault/internal/server/models"
	"github.com/dmitrijs2005/jarvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/jarvault/internal/server/storage"
)

// Upload is one file of a bulk upload.
type Upload struct {
	Filename string
	Content  io.ReadSeeker
}

// JarService ties the metadata store to the file storage engine.
type JarService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	storage        *storage.Engine
	deletePassword string
	logger         logging.Logger
}

func NewJarService(db *sql.DB, m repomanager.RepositoryManager, engine *storage.Engine, cfg *config.Config, logger logging.Logger) *JarService {
	return &JarService{
		db:             db,
		repomanager:    m,
		storage:        engine,
		deletePassword: cfg.DeletePassword,
		logger:         logger.With("module", "jarservice"),
	}
}

// ValidateFilename accepts non-empty flat names ending in .jar in any letter
// case. A bare ".jar" is a valid name.
func ValidateFilename(name string) error {
	if name == "" {
		return fmt.Errorf("%w: file name is empty", common.ErrorValidation)
	}
	if filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: invalid file name %q", common.ErrorValidation, name)
	}
	if !strings.EqualFold(filepath.Ext(name), common.JarExtension) {
		return fmt.Errorf("%w: file must be a %s", common.ErrorValidation, common.JarExtension)
	}
	return nil
}

// Upload stores a single file and records it. Content already known by digest
// is rejected with common.ErrorAlreadyExists.
func (s *JarService) Upload(ctx context.Context, filename string, content io.ReadSeeker) (*models.Jar, error) {
	if err := ValidateFilename(filename); err != nil {
		return nil, err
	}

	digest, err := s.storage.ComputeDigest(content)
	if err != nil {
		return nil, fmt.Errorf("error computing digest: %w", err)
	}

	repo := s.repomanager.Jars(s.db)

	known, err := s.isKnown(ctx, digest)
	if err != nil {
		return nil, err
	}
	if known {
		return nil, fmt.Errorf("jar with same content: %w", common.ErrorAlreadyExists)
	}

	res, err := s.save(content, filename, digest)
	if err != nil {
		return nil, err
	}

	jar, err := repo.Create(ctx, &models.Jar{Name: res.Name, SHA256: digest, SizeBytes: res.Size})
	if err != nil {
		if res.Written {
			s.discard(ctx, res.Name, digest)
		}
		return nil, err
	}

	s.logger.Info(ctx, "jar stored", "id", jar.ID, "name", jar.Name, "size", jar.SizeBytes, "written", res.Written)
	return jar, nil
}

// UploadBulk stores every acceptable file and records them in one
// transaction. Files with invalid names and content that is already stored,
// or repeated within the batch, are skipped. If recording fails, files
// written by this call are removed again unless another upload has since
// recorded them.
func (s *JarService) UploadBulk(ctx context.Context, uploads []Upload) ([]*models.Jar, error) {
	var (
		pending []*models.Jar
		written []*models.Jar
		seen    = make(map[string]struct{}, len(uploads))
	)

	fail := func(err error) ([]*models.Jar, error) {
		for _, w := range written {
			s.discard(ctx, w.Name, w.SHA256)
		}
		return nil, err
	}

	for _, up := range uploads {
		if err := ValidateFilename(up.Filename); err != nil {
			s.logger.Warn(ctx, "bulk upload: skipping file", "name", up.Filename, "error", err)
			continue
		}

		digest, err := s.storage.ComputeDigest(up.Content)
		if err != nil {
			return fail(fmt.Errorf("error computing digest of %q: %w", up.Filename, err))
		}

		if _, dup := seen[digest]; dup {
			s.logger.Debug(ctx, "bulk upload: duplicate within batch", "name", up.Filename)
			continue
		}
		seen[digest] = struct{}{}

		known, err := s.isKnown(ctx, digest)
		if err != nil {
			return fail(err)
		}
		if known {
			s.logger.Debug(ctx, "bulk upload: already stored", "name", up.Filename)
			continue
		}

		res, err := s.save(up.Content, up.Filename, digest)
		if err != nil {
			return fail(err)
		}
		p := &models.Jar{Name: res.Name, SHA256: digest, SizeBytes: res.Size}
		if res.Written {
			written = append(written, p)
		}
		pending = append(pending, p)
	}

	created := make([]*models.Jar, 0, len(pending))
	if len(pending) == 0 {
		return created, nil
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Jars(tx)
		for _, p := range pending {
			jar, err := repo.Create(ctx, p)
			if err != nil {
				return err
			}
			created = append(created, jar)
		}
		return nil
	})
	if err != nil {
		return fail(fmt.Errorf("error recording jars: %w", err))
	}

	s.logger.Info(ctx, "bulk upload stored", "count", len(created), "skipped", len(uploads)-len(created))
	return created, nil
}

// List returns all records, newest first.
func (s *JarService) List(ctx context.Context) ([]*models.Jar, error) {
	return s.repomanager.Jars(s.db).List(ctx)
}

// Get returns the record with the given id.
func (s *JarService) Get(ctx context.Context, id string) (*models.Jar, error) {
	return s.repomanager.Jars(s.db).GetByID(ctx, id)
}

// Open returns the record and a reader for its file. A record whose file is
// missing yields common.ErrorGone. The caller closes the file.
func (s *JarService) Open(ctx context.Context, id string) (*models.Jar, *os.File, error) {
	jar, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	f, err := s.storage.Open(jar.Name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidName) {
			s.logger.Warn(ctx, "jar file missing from storage", "id", jar.ID, "name", jar.Name)
			return nil, nil, fmt.Errorf("%s: %w", jar.Name, common.ErrorGone)
		}
		return nil, nil, err
	}
	return jar, f, nil
}

// Delete removes a record and then its file, provided password matches the
// configured delete secret.
func (s *JarService) Delete(ctx context.Context, id, password string) error {
	if password == "" {
		return common.ErrorPasswordRequired
	}
	if s.deletePassword == "" {
		return fmt.Errorf("%w: delete password not set", common.ErrorMisconfigured)
	}
	if !cryptox.CheckSecret(password, s.deletePassword) {
		return common.ErrorForbidden
	}

	repo := s.repomanager.Jars(s.db)

	jar, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.storage.Delete(jar.Name); err != nil {
		return fmt.Errorf("error deleting file: %w", err)
	}

	s.logger.Info(ctx, "jar deleted", "id", jar.ID, "name", jar.Name)
	return nil
}

func (s *JarService) isKnown(ctx context.Context, digest string) (bool, error) {
	_, err := s.repomanager.Jars(s.db).GetBySHA256(ctx, digest)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, common.ErrorNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("error looking up digest: %w", err)
	}
}

func (s *JarService) save(r io.Reader, name, digest string) (storage.SaveResult, error) {
	res, err := s.storage.Save(r, name, digest)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidName) {
			return res, fmt.Errorf("%w: %v", common.ErrorValidation, err)
		}
		return res, fmt.Errorf("error saving file: %w", err)
	}
	return res, nil
}

// discard removes a file this service placed but failed to record. A
// concurrent upload of the same content may have reused the file and
// committed its own record in the meantime; the file then stays.
func (s *JarService) discard(ctx context.Context, name, digest string) {
	if owner, err := s.repomanager.Jars(s.db).GetBySHA256(ctx, digest); err == nil && owner.Name == name {
		s.logger.Debug(ctx, "keeping file recorded by another upload", "name", name, "id", owner.ID)
		return
	}
	if err := s.storage.Delete(name); err != nil {
		s.logger.Error(ctx, "failed to remove file", "name", name, "error", err)
	}
}
