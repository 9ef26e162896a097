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

// ── 系模块业务错误 ──

var (
	ErrDeptNameExists = errors.New("系名称已存在")
	ErrDeptHasMembers = errors.New("系下仍有成员，不能删除")
)

// DepartmentService 系业务接口
type DepartmentService interface {
	Create(ctx context.Context, req *dto.CreateDepartmentRequest, callerID string) (*dto.DepartmentResponse, error)
	GetByID(ctx context.Context, id string) (*dto.DepartmentResponse, error)
	List(ctx context.Context, req *dto.DepartmentListRequest) ([]dto.DepartmentResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateDepartmentRequest, callerID string) (*dto.DepartmentResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type departmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDepartmentService 创建 DepartmentService 实例
func NewDepartmentService(repo *repository.Repository, logger *zap.Logger) DepartmentService {
	return &departmentService{repo: repo, logger: logger}
}

func (s *departmentService) Create(ctx context.Context, req *dto.CreateDepartmentRequest, callerID string) (*dto.DepartmentResponse, error) {
	if _, err := s.repo.College.GetByID(ctx, req.CollegeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollegeNotFound
		}
		return nil, err
	}

	if _, err := s.repo.Department.GetByName(ctx, req.Name); err == nil {
		return nil, ErrDeptNameExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	dept := &model.Department{
		Name:        req.Name,
		CollegeID:   req.CollegeID,
		Description: req.Description,
		IsActive:    true,
	}
	dept.CreatedBy = &callerID

	if err := s.repo.Department.Create(ctx, dept); err != nil {
		s.logger.Error("创建系失败", zap.Error(err))
		return nil, err
	}

	created, err := s.repo.Department.GetByID(ctx, dept.DepartmentID)
	if err != nil {
		return toDepartmentResponse(dept), nil
	}
	return toDepartmentResponse(created), nil
}

func (s *departmentService) GetByID(ctx context.Context, id string) (*dto.DepartmentResponse, error) {
	dept, err := s.repo.Department.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeptNotFound
		}
		return nil, err
	}

	resp := toDepartmentResponse(dept)
	if count, err := s.repo.Department.CountMembers(ctx, id); err == nil {
		resp.MemberCount = count
	}
	return resp, nil
}

func (s *departmentService) List(ctx context.Context, req *dto.DepartmentListRequest) ([]dto.DepartmentResponse, error) {
	depts, err := s.repo.Department.List(ctx, req.CollegeID)
	if err != nil {
		s.logger.Error("列出系失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.DepartmentResponse, 0, len(depts))
	for i := range depts {
		result = append(result, *toDepartmentResponse(&depts[i]))
	}
	return result, nil
}

func (s *departmentService) Update(ctx context.Context, id string, req *dto.UpdateDepartmentRequest, callerID string) (*dto.DepartmentResponse, error) {
	dept, err := s.repo.Department.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeptNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		existing, err := s.repo.Department.GetByName(ctx, *req.Name)
		if err == nil && existing.DepartmentID != id {
			return nil, ErrDeptNameExists
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		dept.Name = *req.Name
	}
	if req.Description != nil {
		dept.Description = *req.Description
	}
	if req.IsActive != nil {
		dept.IsActive = *req.IsActive
	}
	dept.UpdatedBy = &callerID

	if err := s.repo.Department.Update(ctx, dept); err != nil {
		s.logger.Error("更新系失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toDepartmentResponse(dept), nil
}

func (s *departmentService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Department.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDeptNotFound
		}
		return err
	}

	count, err := s.repo.Department.CountMembers(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDeptHasMembers
	}

	if err := s.repo.Department.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除系失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}
