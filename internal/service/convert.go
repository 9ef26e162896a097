package service

import (
	"time"

	"faculty-appraisal/internal/dto"
	"faculty-appraisal/internal/model"
)

// ── 模型 → DTO 转换（跨服务共用） ──

func toCollegeResponse(college *model.College) *dto.CollegeResponse {
	if college == nil {
		return nil
	}
	return &dto.CollegeResponse{
		ID:          college.CollegeID,
		Name:        college.Name,
		Description: college.Description,
		IsActive:    college.IsActive,
		CreatedAt:   college.CreatedAt.Format(time.RFC3339),
	}
}

func toDepartmentResponse(department *model.Department) *dto.DepartmentResponse {
	if department == nil {
		return nil
	}
	return &dto.DepartmentResponse{
		ID:          department.DepartmentID,
		Name:        department.Name,
		Description: department.Description,
		IsActive:    department.IsActive,
		College:     toCollegeResponse(department.College),
	}
}

func toUserResponse(user *model.User) *dto.UserResponse {
	if user == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:                 user.UserID,
		Name:               user.Name,
		EmployeeID:         user.EmployeeID,
		Email:              user.Email,
		Role:               string(user.Role),
		Title:              user.Title,
		Department:         toDepartmentResponse(user.Department),
		College:            toCollegeResponse(user.College),
		MustChangePassword: user.MustChangePassword,
	}
}

func toCycleResponse(cycle *model.Cycle) *dto.CycleResponse {
	if cycle == nil {
		return nil
	}
	return &dto.CycleResponse{
		ID:           cycle.CycleID,
		Name:         cycle.Name,
		AcademicYear: cycle.AcademicYear,
		StartDate:    cycle.StartDate.Format("2006-01-02"),
		EndDate:      cycle.EndDate.Format("2006-01-02"),
		IsActive:     cycle.IsActive,
		CreatedAt:    cycle.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    cycle.UpdatedAt.Format(time.RFC3339),
	}
}

func toAppraisalResponse(appraisal *model.Appraisal) *dto.AppraisalResponse {
	if appraisal == nil {
		return nil
	}
	resp := &dto.AppraisalResponse{
		ID:                     appraisal.AppraisalID,
		Status:                 string(appraisal.Status),
		Faculty:                toUserResponse(appraisal.Faculty),
		Cycle:                  toCycleResponse(appraisal.Cycle),
		ResearchScore:          appraisal.ResearchScore,
		TeachingScore:          appraisal.TeachingScore,
		UniversityServiceScore: appraisal.UniversityServiceScore,
		CommunityServiceScore:  appraisal.CommunityServiceScore,
		TotalScore:             appraisal.TotalScore,
		CreatedAt:              appraisal.CreatedAt.Format(time.RFC3339),
	}
	if appraisal.SubmittedAt != nil {
		resp.SubmittedAt = appraisal.SubmittedAt.Format(time.RFC3339)
	}
	if appraisal.HODReviewedAt != nil {
		resp.HODReviewedAt = appraisal.HODReviewedAt.Format(time.RFC3339)
	}
	if appraisal.DeanReviewedAt != nil {
		resp.DeanReviewedAt = appraisal.DeanReviewedAt.Format(time.RFC3339)
	}
	if appraisal.CompletedAt != nil {
		resp.CompletedAt = appraisal.CompletedAt.Format(time.RFC3339)
	}
	return resp
}
