package services

import (
	"context"
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/campusjobs/jobboard-api/model"
	"github.com/campusjobs/jobboard-api/storage"
	"github.com/campusjobs/jobboard-api/utils/apperror"
	"github.com/campusjobs/jobboard-api/utils/upload"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResumePathPrefix is the API path resumes are served from.
const ResumePathPrefix = "/api/v1/applications/resumes/"

// ResumeService stores screened resume uploads and serves them to the
// people allowed to read them.
type ResumeService struct {
	db    *gorm.DB
	store storage.BlobStore
	gate  *upload.Gate
}

// NewResumeService creates a new resume service
func NewResumeService(db *gorm.DB, store storage.BlobStore, gate *upload.Gate) *ResumeService {
	return &ResumeService{db: db, store: store, gate: gate}
}

// UploadResult describes a stored resume.
type UploadResult struct {
	FileURL  string `json:"file_url"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
}

// ValidResumeID reports whether id has the form of a generated blob id.
func ValidResumeID(id string) bool {
	ext := filepath.Ext(id)
	switch ext {
	case ".pdf", ".doc", ".docx":
	default:
		return false
	}
	_, err := uuid.Parse(strings.TrimSuffix(id, ext))
	return err == nil && strings.ToLower(id) == id
}

// ResumeIDFromURL extracts the blob id from a resume URL or bare id.
func ResumeIDFromURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if i := strings.Index(raw, ResumePathPrefix); i >= 0 {
		raw = raw[i+len(ResumePathPrefix):]
	}
	if !ValidResumeID(raw) {
		return "", false
	}
	return raw, true
}

// Upload screens a multipart file and stores it for user.
func (s *ResumeService) Upload(ctx context.Context, user *model.User, fh *multipart.FileHeader) (*UploadResult, error) {
	file, err := s.gate.Accept(fh)
	if err != nil {
		return nil, err
	}
	return s.Store(ctx, user.ID, file)
}

// Store writes an already screened file to the blob store and records it.
// The blob is removed again if the record cannot be written.
func (s *ResumeService) Store(ctx context.Context, userID uint, file *upload.File) (*UploadResult, error) {
	id := uuid.NewString() + file.Ext

	if err := s.store.Put(ctx, id, file.Data, file.ContentType); err != nil {
		return nil, storeErr(err, "Failed to store resume")
	}

	resume := model.Resume{
		ID:           id,
		UserID:       userID,
		OriginalName: file.OriginalName,
		ContentType:  file.ContentType,
		Size:         file.Size(),
	}
	if err := s.db.WithContext(ctx).Create(&resume).Error; err != nil {
		if delErr := s.store.Delete(context.WithoutCancel(ctx), id); delErr != nil {
			log.Errorf("failed to remove orphaned resume %s: %v", id, delErr)
		}
		return nil, storeErr(err, "Failed to record resume")
	}

	log.Infof("user %d uploaded resume %s (%d bytes)", userID, id, resume.Size)
	return &UploadResult{
		FileURL:  ResumePathPrefix + id,
		FileName: id,
		FileSize: resume.Size,
	}, nil
}

// Open returns a resume's metadata and content if user may read it: the
// uploader, an admin, or an employer that received an application using it.
func (s *ResumeService) Open(ctx context.Context, user *model.User, id string) (*model.Resume, []byte, error) {
	if !ValidResumeID(id) {
		return nil, nil, apperror.Validation("Invalid resume id", "The resume id is malformed")
	}

	var resume model.Resume
	if err := s.db.WithContext(ctx).First(&resume, "id = ?", id).Error; err != nil {
		return nil, nil, notFoundOr(err, "Resume", id)
	}

	allowed, err := s.canRead(ctx, user, &resume)
	if err != nil {
		return nil, nil, err
	}
	if !allowed {
		return nil, nil, forbidden("You do not have access to this resume")
	}

	data, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, notFoundOr(gorm.ErrRecordNotFound, "Resume", id)
		}
		return nil, nil, storeErr(err, "Failed to read resume")
	}

	return &resume, data, nil
}

func (s *ResumeService) canRead(ctx context.Context, user *model.User, resume *model.Resume) (bool, error) {
	if user.IsAdmin() || resume.UserID == user.ID {
		return true, nil
	}
	if !user.IsEmployer() {
		return false, nil
	}

	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Application{}).
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Joins("JOIN employers ON employers.id = jobs.employer_id").
		Where("employers.user_id = ? AND applications.resume_url = ?", user.ID, ResumePathPrefix+resume.ID).
		Count(&count).Error
	if err != nil {
		return false, storeErr(err, "Failed to check resume access")
	}
	return count > 0, nil
}

// ownResume checks that id names a resume uploaded by userID.
func ownResume(tx *gorm.DB, userID uint, id string) error {
	var count int64
	if err := tx.Model(&model.Resume{}).Where("id = ? AND user_id = ?", id, userID).Count(&count).Error; err != nil {
		return storeErr(err, "Failed to check resume")
	}
	if count == 0 {
		return apperror.Validation("Invalid resume", "resume_url must reference a resume you uploaded").
			WithHelp("Upload your resume with POST /api/v1/applications/upload-resume first")
	}
	return nil
}

// resumeIDsForUser lists the blob ids uploaded by userID.
func resumeIDsForUser(tx *gorm.DB, userID uint) ([]string, error) {
	var ids []string
	err := tx.Model(&model.Resume{}).Where("user_id = ?", userID).Pluck("id", &ids).Error
	return ids, err
}

// removeBlobs deletes blobs whose records are already gone. Failures are
// only logged.
func removeBlobs(ctx context.Context, store storage.BlobStore, ids []string) {
	for _, id := range ids {
		if err := store.Delete(ctx, id); err != nil {
			log.Warnf("failed to remove resume blob %s: %v", id, err)
		}
	}
}
