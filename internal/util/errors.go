package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrSkillNotFound      = errors.New("skill not found")
	ErrCategoryNotFound   = errors.New("skill category not found")
	ErrWorkerNotFound     = errors.New("worker not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrModuleNotFound     = errors.New("course module not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")

	ErrAlreadyEnrolled       = errors.New("you are already enrolled in this course")
	ErrCourseFull            = errors.New("this course is full")
	ErrInvalidTransition     = errors.New("invalid enrollment status transition")
	ErrInvalidProgress       = errors.New("progress percentage must be between 0 and 100")
	ErrInvalidRating         = errors.New("rating must be between 1 and 5")
	ErrCertificateNotAllowed = errors.New("certificate can only be issued for completed enrollments")
	ErrInvalidCapacity       = errors.New("capacity must be a positive integer")
	ErrInvalidDifficulty     = errors.New("invalid difficulty level")
	ErrDuplicateModuleOrder  = errors.New("module order already used in this course")
	ErrInvalidUpload         = errors.New("invalid upload")

	// ErrEmployeeIDConflict 随机工号重试耗尽后时间戳回退值仍然冲突
	ErrEmployeeIDConflict = errors.New("employee id uniqueness conflict")
)
