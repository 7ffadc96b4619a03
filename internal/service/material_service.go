package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/sahabat-guru/backend/internal/apperror"
	"github.com/sahabat-guru/backend/internal/dto"
	"github.com/sahabat-guru/backend/internal/model"
	"github.com/sahabat-guru/backend/internal/repository"
	"github.com/sahabat-guru/backend/internal/storage"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const previewURLExpiry = 24 * time.Hour

// MaterialService generates teaching documents with the AI generator and
// keeps them in object storage.
type MaterialService interface {
	Generate(ctx context.Context, teacherID uint, req dto.GenerateMaterialRequest) (*dto.MaterialResponse, error)
	Get(ctx context.Context, materialID, teacherID uint) (*dto.MaterialResponse, error)
	List(teacherID uint, page, limit int) ([]dto.MaterialResponse, int64, error)
	Delete(ctx context.Context, materialID, teacherID uint) error
}

type materialService struct {
	materialRepo repository.MaterialRepository
	generator    MaterialGenerator
	storage      storage.ObjectStorage
}

func NewMaterialService(
	materialRepo repository.MaterialRepository,
	generator MaterialGenerator,
	objectStorage storage.ObjectStorage,
) MaterialService {
	return &materialService{
		materialRepo: materialRepo,
		generator:    generator,
		storage:      objectStorage,
	}
}

func materialObjectName(materialKind string) string {
	return fmt.Sprintf("materials/%s/%s.md", materialKind, uuid.NewString())
}

func (s *materialService) Generate(ctx context.Context, teacherID uint, req dto.GenerateMaterialRequest) (*dto.MaterialResponse, error) {
	topic, params, err := req.Resolve()
	if err != nil {
		return nil, err
	}

	generated, err := s.generator.Generate(ctx, req.Type, topic, params)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, err, "material generation failed")
	}

	material := model.Material{
		TeacherID: teacherID,
		Kind:      req.Type,
		Topic:     topic,
		Title:     generated.Title,
		Content:   datatypes.JSON(generated.Content),
	}

	// Document upload is best-effort: the structured content is already
	// persisted in the row, so a storage outage only costs the download link.
	if generated.Document != "" {
		objectName := materialObjectName(req.Type)
		reader := strings.NewReader(generated.Document)
		url, err := s.storage.Upload(ctx, objectName, reader, int64(reader.Len()), "text/markdown")
		if err != nil {
			log.Warn().Err(err).Str("object", objectName).Msg("Failed to upload generated material document")
		} else {
			material.DocumentURL = url
			if preview, err := s.storage.PresignedURL(ctx, objectName, previewURLExpiry); err != nil {
				log.Warn().Err(err).Str("object", objectName).Msg("Failed to presign material preview URL")
			} else {
				material.PreviewURL = preview
			}
		}
	}

	if err := s.materialRepo.Create(&material); err != nil {
		return nil, err
	}

	var resp dto.MaterialResponse
	copier.Copy(&resp, &material)
	return &resp, nil
}

func (s *materialService) ownedMaterial(materialID, teacherID uint) (*model.Material, error) {
	material, err := s.materialRepo.FindByID(materialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("material %d not found", materialID)
		}
		return nil, err
	}
	if material.TeacherID != teacherID {
		return nil, apperror.NotFoundf("material %d not found", materialID)
	}
	return material, nil
}

func (s *materialService) Get(ctx context.Context, materialID, teacherID uint) (*dto.MaterialResponse, error) {
	material, err := s.ownedMaterial(materialID, teacherID)
	if err != nil {
		return nil, err
	}
	var resp dto.MaterialResponse
	copier.Copy(&resp, material)
	return &resp, nil
}

func (s *materialService) List(teacherID uint, page, limit int) ([]dto.MaterialResponse, int64, error) {
	materials, total, err := s.materialRepo.FindAllByTeacher(teacherID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]dto.MaterialResponse, len(materials))
	copier.Copy(&resp, &materials)
	return resp, total, nil
}

func (s *materialService) Delete(ctx context.Context, materialID, teacherID uint) error {
	material, err := s.ownedMaterial(materialID, teacherID)
	if err != nil {
		return err
	}
	if err := s.materialRepo.Delete(material.ID); err != nil {
		return err
	}
	if material.DocumentURL != "" {
		// The row is soft-deleted first; an orphaned object is preferable to a
		// dangling URL on a live row.
		if idx := strings.Index(material.DocumentURL, "materials/"); idx >= 0 {
			objectName := material.DocumentURL[idx:]
			if err := s.storage.Delete(ctx, objectName); err != nil {
				log.Warn().Err(err).Str("object", objectName).Msg("Failed to delete material document from storage")
			}
		}
	}
	return nil
}
