package service

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"testing"

	"skilldev_backend/internal/model"
	"skilldev_backend/internal/repository"
	"skilldev_backend/internal/testdb"
	"skilldev_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func courseTitles(courses []CourseSummary) []string {
	titles := make([]string, 0, len(courses))
	for _, c := range courses {
		titles = append(titles, c.Title)
	}
	return titles
}

func TestListCoursesFilters(t *testing.T) {
	s := newTestServices(t)
	tech := testdb.CreateCategory(t, s.db, "Technology")
	python := testdb.CreateSkill(t, s.db, tech, "Python Programming", model.Intermediate)
	docker := testdb.CreateSkill(t, s.db, tech, "Docker", model.Advanced)

	testdb.CreateCourse(t, s.db, "Python 101", 10, nil, *python)
	testdb.CreateCourse(t, s.db, "Containers", 10, nil, *docker)
	testdb.CreateCourse(t, s.db, "Soft Skills", 10, nil)
	retired := testdb.CreateCourse(t, s.db, "Retired Python", 10, nil, *python)
	testdb.Deactivate(t, s.db, retired)

	all, err := s.course.ListCourses(repository.CourseFilter{Skill: "none"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Python 101", "Containers", "Soft Skills"}, courseTitles(all))

	byID, err := s.course.ListCourses(repository.CourseFilter{Skill: "2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Containers"}, courseTitles(byID))

	byName, err := s.course.ListCourses(repository.CourseFilter{Skill: "python"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Python 101"}, courseTitles(byName))

	byQuery, err := s.course.ListCourses(repository.CourseFilter{Query: "contain"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Containers"}, courseTitles(byQuery))
}

func TestCourseSummaryCountsSeats(t *testing.T) {
	s := newTestServices(t)
	course := testdb.CreateCourse(t, s.db, "Small", 2, nil)
	for _, name := range []string{"u1", "u2"} {
		user := testdb.CreateUser(t, s.db, name, model.WorkerRole)
		_, err := s.enrollment.Enroll(user.ID, course.ID)
		require.NoError(t, err)
	}

	courses, err := s.course.ListCourses(repository.CourseFilter{})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, int64(2), courses[0].EnrolledCount)
	assert.Equal(t, int64(0), courses[0].AvailableSpots)
	assert.True(t, courses[0].IsFull)
}

func TestGetCourseDetail(t *testing.T) {
	s := newTestServices(t)
	tech := testdb.CreateCategory(t, s.db, "Technology")
	goSkill := testdb.CreateSkill(t, s.db, tech, "Go", model.Beginner)
	course := testdb.CreateCourse(t, s.db, "Go Basics", 10, nil, *goSkill)
	testdb.CreateCourse(t, s.db, "Go Advanced", 10, nil, *goSkill)
	testdb.CreateModule(t, s.db, course, 2)
	testdb.CreateModule(t, s.db, course, 1)

	user := testdb.CreateUser(t, s.db, "viewer", model.WorkerRole)

	detail, err := s.course.GetCourseDetail(course.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, detail.IsEnrolled)
	assert.Equal(t, 2, detail.ModuleCount)
	assert.Equal(t, 1, detail.Modules[0].Order)
	assert.InDelta(t, 2.0, detail.TotalModuleHours, 0.001)
	require.Len(t, detail.Related, 1)
	assert.Equal(t, "Go Advanced", detail.Related[0].Title)

	_, err = s.worker.WorkerRepo.FindByUserID(user.ID)
	assert.Error(t, err)

	_, err = s.enrollment.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	detail, err = s.course.GetCourseDetail(course.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, detail.IsEnrolled)
	assert.Equal(t, int64(1), detail.EnrolledCount)

	_, err = s.course.GetCourseDetail(999, 0)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestCreateAndManageCourse(t *testing.T) {
	s := newTestServices(t)
	owner := testdb.CreateUser(t, s.db, "prof", model.Instructor)
	other := testdb.CreateUser(t, s.db, "other", model.Instructor)
	tech := testdb.CreateCategory(t, s.db, "Technology")
	skill := testdb.CreateSkill(t, s.db, tech, "Go", model.Beginner)
	actor := Actor{UserID: owner.ID, Role: model.Instructor}

	_, err := s.course.CreateCourse(actor, CourseRequest{Title: "Bad", DurationHours: 1, Capacity: -1})
	assert.ErrorIs(t, err, util.ErrInvalidCapacity)

	course, err := s.course.CreateCourse(actor, CourseRequest{Title: "Go", DurationHours: 8, SkillIDs: []uint{skill.ID}})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCourseCapacity, course.Capacity)
	assert.Equal(t, model.Beginner, course.DifficultyLevel)
	require.NotNil(t, course.InstructorID)
	assert.Equal(t, owner.ID, *course.InstructorID)

	_, err = s.course.UpdateCourse(Actor{UserID: other.ID, Role: model.Instructor}, course.ID, CourseRequest{Title: "Hijack", DurationHours: 1})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	updated, err := s.course.UpdateCourse(actor, course.ID, CourseRequest{Title: "Go in Practice", DurationHours: 12, Capacity: 5})
	require.NoError(t, err)
	assert.Equal(t, "Go in Practice", updated.Title)
	assert.Equal(t, 5, updated.Capacity)

	m1, err := s.course.AddModule(actor, course.ID, ModuleRequest{Title: "Intro"})
	require.NoError(t, err)
	assert.Equal(t, 1, m1.Order)
	assert.Equal(t, 60, m1.DurationMinutes)
	m2, err := s.course.AddModule(actor, course.ID, ModuleRequest{Title: "Next"})
	require.NoError(t, err)
	assert.Equal(t, 2, m2.Order)
	_, err = s.course.AddModule(actor, course.ID, ModuleRequest{Title: "Clash", Order: 1})
	assert.ErrorIs(t, err, util.ErrDuplicateModuleOrder)

	require.NoError(t, s.course.DeleteCourse(Actor{UserID: 0, Role: model.Admin}, course.ID))
	_, err = s.course.GetCourseDetail(course.ID, 0)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func videoHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("video", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["video"][0]
}

func TestUploadModuleVideo(t *testing.T) {
	s := newTestServices(t)
	owner := testdb.CreateUser(t, s.db, "video-prof", model.Instructor)
	course := testdb.CreateCourse(t, s.db, "Filmed", 10, owner)
	module := testdb.CreateModule(t, s.db, course, 1)
	actor := Actor{UserID: owner.ID, Role: model.Instructor}

	s.course.Probe = func(string) (*util.VideoInfo, error) {
		return &util.VideoInfo{Duration: 600, Width: 1280, Height: 720}, nil
	}

	_, err := s.course.UploadModuleVideo(context.Background(), actor, module.ID, videoHeader(t, "notes.txt", []byte("x")))
	assert.ErrorIs(t, err, util.ErrInvalidUpload)

	updated, err := s.course.UploadModuleVideo(context.Background(), actor, module.ID, videoHeader(t, "lesson.mp4", []byte("fake video")))
	require.NoError(t, err)
	assert.Equal(t, 10, updated.DurationMinutes)
	assert.True(t, strings.HasPrefix(updated.VideoURL, "/uploads/videos/course-"))
	assert.True(t, strings.HasSuffix(updated.VideoURL, ".mp4"))

	// ffprobe 失败时保留原时长
	s.course.Probe = func(string) (*util.VideoInfo, error) { return nil, errors.New("no ffprobe") }
	updated, err = s.course.UploadModuleVideo(context.Background(), actor, module.ID, videoHeader(t, "lesson2.mov", []byte("fake")))
	require.NoError(t, err)
	assert.Equal(t, 10, updated.DurationMinutes)

	_, err = s.course.UploadModuleVideo(context.Background(), Actor{UserID: 999, Role: model.Instructor}, module.ID, videoHeader(t, "x.mp4", nil))
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}
