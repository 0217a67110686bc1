package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"skilldev_backend/internal/model"
	"skilldev_backend/internal/testdb"
	"skilldev_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollCreatesWorkerOnFirstVisit(t *testing.T) {
	s := newTestServices(t)
	user := testdb.CreateUser(t, s.db, "alice", model.WorkerRole)
	course := testdb.CreateCourse(t, s.db, "Go Basics", 10, nil)

	result, err := s.enrollment.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, result.WorkerCreated)
	assert.Regexp(t, `^EMP\d{5}$`, result.Worker.EmployeeID)
	assert.Equal(t, model.DefaultWorkerDepartment, result.Worker.Department)
	assert.Equal(t, model.StatusEnrolled, result.Enrollment.Status)
	assert.Equal(t, 0, result.Enrollment.ProgressPercentage)
	assert.Nil(t, result.Enrollment.CompletedDate)
	assert.Equal(t, "Go Basics", result.Enrollment.Course.Title)

	other := testdb.CreateCourse(t, s.db, "Go Advanced", 10, nil)
	result, err = s.enrollment.Enroll(user.ID, other.ID)
	require.NoError(t, err)
	assert.False(t, result.WorkerCreated)
}

func TestEnrollCapacityOneScenario(t *testing.T) {
	s := newTestServices(t)
	u1 := testdb.CreateUser(t, s.db, "w1", model.WorkerRole)
	u2 := testdb.CreateUser(t, s.db, "w2", model.WorkerRole)
	course := testdb.CreateCourse(t, s.db, "Tiny Class", 1, nil)

	first, err := s.enrollment.Enroll(u1.ID, course.ID)
	require.NoError(t, err)

	rejected, err := s.enrollment.Enroll(u2.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrCourseFull)
	require.NotNil(t, rejected)
	assert.True(t, rejected.WorkerCreated)
	assert.Nil(t, rejected.Enrollment)

	_, err = s.enrollment.Drop(u1.ID, first.Enrollment.ID)
	require.NoError(t, err)

	second, err := s.enrollment.Enroll(u2.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, second.WorkerCreated)

	count, err := s.enrollment.EnrollmentRepo.CountActive(course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestEnrollTwiceIsRejected(t *testing.T) {
	s := newTestServices(t)
	user := testdb.CreateUser(t, s.db, "bob", model.WorkerRole)
	course := testdb.CreateCourse(t, s.db, "Leadership", 5, nil)

	first, err := s.enrollment.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	_, err = s.enrollment.Start(user.ID, first.Enrollment.ID)
	require.NoError(t, err)
	_, err = s.enrollment.UpdateProgress(user.ID, first.Enrollment.ID, 40)
	require.NoError(t, err)

	result, err := s.enrollment.Enroll(user.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)
	require.NotNil(t, result)
	assert.False(t, result.WorkerCreated)

	count, err := s.enrollment.EnrollmentRepo.CountActive(course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// 第一次选课记录保持不变
	stored, err := s.enrollment.EnrollmentRepo.FindByID(first.Enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, stored.Status)
	assert.Equal(t, 40, stored.ProgressPercentage)
	assert.True(t, stored.IsActive)
	assert.WithinDuration(t, first.Enrollment.EnrolledDate, stored.EnrolledDate, time.Second)
}

func TestEnrollDuplicateCheckedBeforeCapacity(t *testing.T) {
	s := newTestServices(t)
	user := testdb.CreateUser(t, s.db, "carol", model.WorkerRole)
	course := testdb.CreateCourse(t, s.db, "Full House", 1, nil)

	_, err := s.enrollment.Enroll(user.ID, course.ID)
	require.NoError(t, err)

	_, err = s.enrollment.Enroll(user.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)
}

func TestEnrollInactiveOrMissingCourse(t *testing.T) {
	s := newTestServices(t)
	user := testdb.CreateUser(t, s.db, "dave", model.WorkerRole)
	course := testdb.CreateCourse(t, s.db, "Retired", 5, nil)
	testdb.Deactivate(t, s.db, course)

	result, err := s.enrollment.Enroll(user.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
	assert.Nil(t, result)

	_, err = s.enrollment.Enroll(user.ID, 9999)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)

	// 课程不存在时不建档
	_, err = s.worker.WorkerRepo.FindByUserID(user.ID)
	assert.Error(t, err)
}

func TestReEnrollAfterDropReusesRow(t *testing.T) {
	s := newTestServices(t)
	user := testdb.CreateUser(t, s.db, "erin", model.WorkerRole)
	course := testdb.CreateCourse(t, s.db, "Python", 5, nil)

	first, err := s.enrollment.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	_, err = s.enrollment.UpdateProgress(user.ID, first.Enrollment.ID, 40)
	require.NoError(t, err)

	dropped, err := s.enrollment.Drop(user.ID, first.Enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDropped, dropped.Status)
	assert.False(t, dropped.IsActive)

	again, err := s.enrollment.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Enrollment.ID, again.Enrollment.ID)
	assert.Equal(t, model.StatusEnrolled, again.Enrollment.Status)
	assert.Equal(t, 0, again.Enrollment.ProgressPercentage)
	assert.True(t, again.Enrollment.IsActive)
}

func TestConcurrentEnrollNeverDuplicates(t *testing.T) {
	s := newTestServices(t)
	course := testdb.CreateCourse(t, s.db, "Popular", 3, nil)

	users := make([]*model.User, 8)
	for i := range users {
		users[i] = testdb.CreateUser(t, s.db, fmt.Sprintf("rush%d", i), model.WorkerRole)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
	)
	for _, u := range users {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			_, err := s.enrollment.Enroll(userID, course.ID)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				admitted++
				return
			}
			assert.ErrorIs(t, err, util.ErrCourseFull)
		}(u.ID)
	}
	wg.Wait()

	assert.GreaterOrEqual(t, admitted, 3)

	var rows int64
	require.NoError(t, s.db.Model(&model.Enrollment{}).Where("course_id = ?", course.ID).Count(&rows).Error)
	assert.Equal(t, int64(admitted), rows)
}

func TestStatusTransitions(t *testing.T) {
	s := newTestServices(t)
	instructor := testdb.CreateUser(t, s.db, "teacher", model.Instructor)
	user := testdb.CreateUser(t, s.db, "frank", model.WorkerRole)
	course := testdb.CreateCourse(t, s.db, "Docker", 5, instructor)

	result, err := s.enrollment.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	id := result.Enrollment.ID
	owner := Actor{UserID: instructor.ID, Role: model.Instructor}

	_, err = s.enrollment.UpdateStatus(owner, id, model.StatusCompleted)
	assert.ErrorIs(t, err, util.ErrInvalidTransition)

	started, err := s.enrollment.Start(user.ID, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, started.Status)
	assert.Nil(t, started.CompletedDate)

	_, err = s.enrollment.UpdateStatus(owner, id, model.StatusEnrolled)
	assert.ErrorIs(t, err, util.ErrInvalidTransition)

	_, err = s.enrollment.UpdateStatus(owner, id, model.EnrollmentStatus("paused"))
	assert.ErrorIs(t, err, util.ErrInvalidTransition)

	completed, err := s.enrollment.UpdateStatus(owner, id, model.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedDate)
	assert.True(t, completed.IsActive)

	dropped, err := s.enrollment.Drop(user.ID, id)
	require.NoError(t, err)
	assert.Nil(t, dropped.CompletedDate)

	_, err = s.enrollment.Drop(user.ID, id)
	assert.ErrorIs(t, err, util.ErrInvalidTransition)
}

func TestUpdateStatusPermissions(t *testing.T) {
	s := newTestServices(t)
	owner := testdb.CreateUser(t, s.db, "owner", model.Instructor)
	stranger := testdb.CreateUser(t, s.db, "stranger", model.Instructor)
	admin := testdb.CreateUser(t, s.db, "root", model.Admin)
	user := testdb.CreateUser(t, s.db, "gina", model.WorkerRole)
	course := testdb.CreateCourse(t, s.db, "Kubernetes", 5, owner)

	result, err := s.enrollment.Enroll(user.ID, course.ID)
	require.NoError(t, err)

	_, err = s.enrollment.UpdateStatus(Actor{UserID: stranger.ID, Role: model.Instructor}, result.Enrollment.ID, model.StatusInProgress)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = s.enrollment.ListCourseEnrollments(Actor{UserID: stranger.ID, Role: model.Instructor}, course.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	updated, err := s.enrollment.UpdateStatus(Actor{UserID: admin.ID, Role: model.Admin}, result.Enrollment.ID, model.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, updated.Status)

	roster, err := s.enrollment.ListCourseEnrollments(Actor{UserID: owner.ID, Role: model.Instructor}, course.ID)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, user.ID, roster[0].Worker.UserID)
}

func TestOtherUsersEnrollmentIsHidden(t *testing.T) {
	s := newTestServices(t)
	owner := testdb.CreateUser(t, s.db, "henry", model.WorkerRole)
	other := testdb.CreateUser(t, s.db, "ivy", model.WorkerRole)
	course := testdb.CreateCourse(t, s.db, "Excel", 5, nil)

	result, err := s.enrollment.Enroll(owner.ID, course.ID)
	require.NoError(t, err)

	_, err = s.enrollment.Drop(other.ID, result.Enrollment.ID)
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
	_, err = s.enrollment.UpdateProgress(other.ID, result.Enrollment.ID, 10)
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
}

func TestProgressAndRatingBounds(t *testing.T) {
	s := newTestServices(t)
	user := testdb.CreateUser(t, s.db, "jack", model.WorkerRole)
	course := testdb.CreateCourse(t, s.db, "SQL", 5, nil)
	result, err := s.enrollment.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	id := result.Enrollment.ID

	for _, p := range []int{-1, 101} {
		_, err = s.enrollment.UpdateProgress(user.ID, id, p)
		assert.ErrorIs(t, err, util.ErrInvalidProgress)
	}
	updated, err := s.enrollment.UpdateProgress(user.ID, id, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, updated.ProgressPercentage)
	assert.Equal(t, model.StatusEnrolled, updated.Status)

	for _, r := range []int{0, 6} {
		_, err = s.enrollment.Rate(user.ID, id, r, "")
		assert.ErrorIs(t, err, util.ErrInvalidRating)
	}
	rated, err := s.enrollment.Rate(user.ID, id, 5, "great")
	require.NoError(t, err)
	require.NotNil(t, rated.Rating)
	assert.Equal(t, 5, *rated.Rating)
	assert.Equal(t, "great", rated.Review)

	// 退课后不能再评分或更新进度
	_, err = s.enrollment.Drop(user.ID, id)
	require.NoError(t, err)
	_, err = s.enrollment.Rate(user.ID, id, 3, "changed")
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
	_, err = s.enrollment.UpdateProgress(user.ID, id, 50)
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
}

func TestCompleteModuleAccumulatesTime(t *testing.T) {
	s := newTestServices(t)
	user := testdb.CreateUser(t, s.db, "kate", model.WorkerRole)
	course := testdb.CreateCourse(t, s.db, "Rust", 5, nil)
	m1 := testdb.CreateModule(t, s.db, course, 1)
	m2 := testdb.CreateModule(t, s.db, course, 2)
	other := testdb.CreateCourse(t, s.db, "Elsewhere", 5, nil)
	foreign := testdb.CreateModule(t, s.db, other, 1)

	result, err := s.enrollment.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	id := result.Enrollment.ID

	_, err = s.enrollment.CompleteModule(user.ID, id, m2.ID, 30)
	require.NoError(t, err)
	_, err = s.enrollment.CompleteModule(user.ID, id, m1.ID, 20)
	require.NoError(t, err)
	_, err = s.enrollment.CompleteModule(user.ID, id, m1.ID, 15)
	require.NoError(t, err)

	_, err = s.enrollment.CompleteModule(user.ID, id, foreign.ID, 10)
	assert.ErrorIs(t, err, util.ErrModuleNotFound)

	progress, err := s.enrollment.ListModuleProgress(user.ID, id)
	require.NoError(t, err)
	require.Len(t, progress, 2)
	assert.Equal(t, m1.ID, progress[0].ModuleID)
	assert.Equal(t, 35, progress[0].TimeSpentMinutes)
	assert.True(t, progress[0].Completed)
	assert.Equal(t, 30, progress[1].TimeSpentMinutes)

	enrollment, err := s.enrollment.EnrollmentRepo.FindByID(id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusEnrolled, enrollment.Status)
}

func TestIssueCertificate(t *testing.T) {
	s := newTestServices(t)
	instructor := testdb.CreateUser(t, s.db, "mentor", model.Instructor)
	user := testdb.CreateUser(t, s.db, "liam", model.WorkerRole)
	course := testdb.CreateCourse(t, s.db, "Security", 5, instructor)
	actor := Actor{UserID: instructor.ID, Role: model.Instructor}

	result, err := s.enrollment.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	id := result.Enrollment.ID

	_, err = s.enrollment.IssueCertificate(context.Background(), actor, id, nil)
	assert.ErrorIs(t, err, util.ErrCertificateNotAllowed)

	_, err = s.enrollment.Start(user.ID, id)
	require.NoError(t, err)
	_, err = s.enrollment.UpdateStatus(actor, id, model.StatusCompleted)
	require.NoError(t, err)

	content := []byte("%PDF-1.4 certificate")
	issued, err := s.enrollment.IssueCertificate(context.Background(), actor, id, &CertificateFile{
		Filename:    "liam.pdf",
		Reader:      bytes.NewReader(content),
		Size:        int64(len(content)),
		ContentType: util.MimePDF,
	})
	require.NoError(t, err)
	assert.True(t, issued.CertificateIssued)
	assert.True(t, strings.HasPrefix(issued.CertificateFileURL, fmt.Sprintf("/uploads/certificates/%d/", id)))
	assert.True(t, strings.HasSuffix(issued.CertificateFileURL, ".pdf"))

	root := s.storage.Provider.(*LocalStorageProvider).Root
	stored, err := os.ReadFile(filepath.Join(root, strings.TrimPrefix(issued.CertificateFileURL, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, content, stored)
}

func TestGetCourseEnrollmentDoesNotProvision(t *testing.T) {
	s := newTestServices(t)
	user := testdb.CreateUser(t, s.db, "mia", model.WorkerRole)
	course := testdb.CreateCourse(t, s.db, "Go", 5, nil)

	enrollment, err := s.enrollment.GetCourseEnrollment(user.ID, course.ID)
	require.NoError(t, err)
	assert.Nil(t, enrollment)

	_, err = s.worker.WorkerRepo.FindByUserID(user.ID)
	assert.Error(t, err)
}
