package service

import (
	"faculty-appraisal/internal/model"
	"faculty-appraisal/pkg/apperrors"
)

// ResolveEvaluatorAccess 评分权限解析：给定操作人与目标考核，
// 判定其是否有权评分，并给出其行使的评价人角色。
//
// 规则（对角色封闭集合做穷举匹配，授权规则集中于此一处）：
//   - ADMIN：始终放行，名义角色取目标教师的上一级（INSTRUCTOR→HOD，HOD→DEAN）
//   - DEAN：仅当目标教师为 HOD 且同学院
//   - HOD：仅当目标教师为 INSTRUCTOR 且同系
//   - INSTRUCTOR：永不授权
//
// 任何情况下不允许自评。纯谓词，每次评分调用都必须重新解析
// （组织归属可能在两次调用之间变动，不得跨请求缓存）。
func ResolveEvaluatorAccess(actor *model.User, appraisal *model.Appraisal) (model.EvaluatorRole, error) {
	if actor == nil || appraisal == nil || appraisal.Faculty == nil {
		return "", apperrors.InvalidInput("权限解析缺少必要信息")
	}

	faculty := appraisal.Faculty

	// 自评一律拒绝（系主任名义上在自己系内也不行）
	if actor.UserID == faculty.UserID {
		return "", apperrors.Forbidden("不能评价自己的考核")
	}

	switch actor.Role {
	case model.RoleAdmin:
		switch faculty.Role {
		case model.RoleInstructor:
			return model.EvaluatorHOD, nil
		case model.RoleHOD:
			return model.EvaluatorDean, nil
		default:
			return "", apperrors.Forbidden("该教师角色不在考核范围内")
		}

	case model.RoleDean:
		if faculty.Role != model.RoleHOD {
			return "", apperrors.Forbidden("院长仅可评价系主任的考核")
		}
		if actor.CollegeID == nil || faculty.Department == nil ||
			faculty.Department.CollegeID != *actor.CollegeID {
			return "", apperrors.Forbidden("无权评价其他学院的考核")
		}
		return model.EvaluatorDean, nil

	case model.RoleHOD:
		if faculty.Role != model.RoleInstructor {
			return "", apperrors.Forbidden("系主任仅可评价本系教师的考核")
		}
		if actor.DepartmentID == nil || faculty.DepartmentID == nil ||
			*faculty.DepartmentID != *actor.DepartmentID {
			return "", apperrors.Forbidden("无权评价其他系的考核")
		}
		return model.EvaluatorHOD, nil

	case model.RoleInstructor:
		return "", apperrors.Forbidden("教师无评分权限")

	default:
		return "", apperrors.InvalidInput("未知的用户角色")
	}
}
