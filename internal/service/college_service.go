package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"faculty-appraisal/internal/dto"
	"faculty-appraisal/internal/model"
	"faculty-appraisal/internal/repository"
)

// ── 学院模块业务错误 ──

var (
	ErrCollegeNameExists = errors.New("学院名称已存在")
	ErrCollegeHasDepts   = errors.New("学院下仍有系，不能删除")
)

// CollegeService 学院业务接口
type CollegeService interface {
	Create(ctx context.Context, req *dto.CreateCollegeRequest, callerID string) (*dto.CollegeResponse, error)
	GetByID(ctx context.Context, id string) (*dto.CollegeResponse, error)
	List(ctx context.Context) ([]dto.CollegeResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateCollegeRequest, callerID string) (*dto.CollegeResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type collegeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCollegeService 创建 CollegeService 实例
func NewCollegeService(repo *repository.Repository, logger *zap.Logger) CollegeService {
	return &collegeService{repo: repo, logger: logger}
}

func (s *collegeService) Create(ctx context.Context, req *dto.CreateCollegeRequest, callerID string) (*dto.CollegeResponse, error) {
	if _, err := s.repo.College.GetByName(ctx, req.Name); err == nil {
		return nil, ErrCollegeNameExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	college := &model.College{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	college.CreatedBy = &callerID

	if err := s.repo.College.Create(ctx, college); err != nil {
		s.logger.Error("创建学院失败", zap.Error(err))
		return nil, err
	}
	return toCollegeResponse(college), nil
}

func (s *collegeService) GetByID(ctx context.Context, id string) (*dto.CollegeResponse, error) {
	college, err := s.repo.College.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollegeNotFound
		}
		return nil, err
	}
	return toCollegeResponse(college), nil
}

func (s *collegeService) List(ctx context.Context) ([]dto.CollegeResponse, error) {
	colleges, err := s.repo.College.List(ctx)
	if err != nil {
		s.logger.Error("列出学院失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.CollegeResponse, 0, len(colleges))
	for i := range colleges {
		result = append(result, *toCollegeResponse(&colleges[i]))
	}
	return result, nil
}

func (s *collegeService) Update(ctx context.Context, id string, req *dto.UpdateCollegeRequest, callerID string) (*dto.CollegeResponse, error) {
	college, err := s.repo.College.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollegeNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		existing, err := s.repo.College.GetByName(ctx, *req.Name)
		if err == nil && existing.CollegeID != id {
			return nil, ErrCollegeNameExists
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		college.Name = *req.Name
	}
	if req.Description != nil {
		college.Description = *req.Description
	}
	if req.IsActive != nil {
		college.IsActive = *req.IsActive
	}
	college.UpdatedBy = &callerID

	if err := s.repo.College.Update(ctx, college); err != nil {
		s.logger.Error("更新学院失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toCollegeResponse(college), nil
}

func (s *collegeService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.College.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCollegeNotFound
		}
		return err
	}

	// 学院下仍有系时拒绝删除
	depts, err := s.repo.Department.List(ctx, id)
	if err != nil {
		return err
	}
	if len(depts) > 0 {
		return ErrCollegeHasDepts
	}

	if err := s.repo.College.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除学院失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}
