// Package seed 写入演示用的技能、课程、讲师与员工数据，重复执行时跳过已存在的记录
package seed

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"skilldev_backend/internal/model"
	"skilldev_backend/internal/repository"
	"skilldev_backend/internal/service"
	"skilldev_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Result 本次新建的记录数
type Result struct {
	Categories  int
	Skills      int
	Instructors int
	Courses     int
	Workers     int
}

type Seeder struct {
	Auth       *service.AuthService
	UserRepo   *repository.UserRepository
	SkillRepo  *repository.SkillRepository
	CourseRepo *repository.CourseRepository
	WorkerRepo *repository.WorkerRepository

	rnd *rand.Rand
	now time.Time
}

func NewSeeder(db *gorm.DB, auth *service.AuthService, seed int64) *Seeder {
	return &Seeder{
		Auth:       auth,
		UserRepo:   repository.NewUserRepository(db),
		SkillRepo:  repository.NewSkillRepository(db),
		CourseRepo: repository.NewCourseRepository(db),
		WorkerRepo: repository.NewWorkerRepository(db),
		rnd:        rand.New(rand.NewSource(seed)),
		now:        time.Now(),
	}
}

func (s *Seeder) Run() (*Result, error) {
	result := &Result{}

	categoryIDs, err := s.seedCategories(result)
	if err != nil {
		return nil, fmt.Errorf("seed categories: %w", err)
	}
	if err := s.seedSkills(categoryIDs, result); err != nil {
		return nil, fmt.Errorf("seed skills: %w", err)
	}
	instructorIDs, err := s.seedInstructors(result)
	if err != nil {
		return nil, fmt.Errorf("seed instructors: %w", err)
	}
	if err := s.seedCourses(categoryIDs, instructorIDs, result); err != nil {
		return nil, fmt.Errorf("seed courses: %w", err)
	}
	if err := s.seedWorkers(result); err != nil {
		return nil, fmt.Errorf("seed workers: %w", err)
	}

	logger.Log.Info("演示数据写入完成",
		zap.Int("categories", result.Categories),
		zap.Int("skills", result.Skills),
		zap.Int("courses", result.Courses),
		zap.Int("workers", result.Workers),
	)
	return result, nil
}

func (s *Seeder) seedCategories(result *Result) (map[string]uint, error) {
	ids := make(map[string]uint, len(categories))
	for _, c := range categories {
		existing, err := s.SkillRepo.FindCategoryByName(c.Name)
		if err == nil {
			ids[c.Name] = existing.ID
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		category := &model.SkillCategory{
			BaseModel:   model.BaseModel{IsActive: true},
			Name:        c.Name,
			Description: c.Description,
			Icon:        c.Icon,
		}
		if err := s.SkillRepo.CreateCategory(category); err != nil {
			return nil, err
		}
		ids[c.Name] = category.ID
		result.Categories++
	}
	return ids, nil
}

func (s *Seeder) seedSkills(categoryIDs map[string]uint, result *Result) error {
	byName := make(map[string]*model.Skill, len(skills))
	for _, sk := range skills {
		existing, err := s.SkillRepo.FindByName(sk.Name)
		if err == nil {
			byName[sk.Name] = existing
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		skill := &model.Skill{
			BaseModel:              model.BaseModel{IsActive: true},
			Name:                   sk.Name,
			Description:            sk.Description,
			CategoryID:             categoryIDs[sk.Category],
			DifficultyLevel:        sk.Difficulty,
			EstimatedDurationHours: sk.Hours,
		}
		if err := s.SkillRepo.Create(skill); err != nil {
			return err
		}
		byName[sk.Name] = skill
		result.Skills++
	}

	for name, prereqs := range prerequisites {
		skill := byName[name]
		for _, p := range prereqs {
			// Association.Append 对已存在的边不会重复插入
			if err := s.SkillRepo.AddPrerequisite(skill, byName[p]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) ensureUser(p personSeed, role model.UserRole) (*model.User, bool, error) {
	existing, err := s.UserRepo.FindByUsername(p.Username)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	user, err := s.Auth.CreateUser(service.RegisterRequest{
		Username:  p.Username,
		Email:     p.Email,
		Password:  defaultPassword,
		FirstName: p.FirstName,
		LastName:  p.LastName,
	}, role)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *Seeder) seedInstructors(result *Result) (map[string]uint, error) {
	ids := make(map[string]uint, len(instructors))
	for _, p := range instructors {
		user, created, err := s.ensureUser(p, model.Instructor)
		if err != nil {
			return nil, err
		}
		ids[p.Username] = user.ID
		if created {
			result.Instructors++
		}
	}
	return ids, nil
}

func (s *Seeder) seedCourses(categoryIDs, instructorIDs map[string]uint, result *Result) error {
	for _, c := range courses {
		if _, err := s.CourseRepo.FindByTitle(c.Title); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// 每门课程关联所属分类的前三个技能
		courseSkills, err := s.SkillRepo.List(repository.SkillFilter{CategoryID: categoryIDs[c.Category]})
		if err != nil {
			return err
		}
		if len(courseSkills) > 3 {
			courseSkills = courseSkills[:3]
		}

		instructorID := instructorIDs[c.Instructor]
		start := s.now.AddDate(0, 0, 7+s.rnd.Intn(31))
		end := s.now.AddDate(0, 0, 38+s.rnd.Intn(31))
		course := &model.Course{
			BaseModel:       model.BaseModel{IsActive: true},
			Title:           c.Title,
			Description:     c.Description,
			InstructorID:    &instructorID,
			ImageURL:        c.ImageURL,
			DurationHours:   c.Hours,
			Capacity:        c.Capacity,
			Price:           c.Price,
			DifficultyLevel: c.Difficulty,
			StartDate:       &start,
			EndDate:         &end,
			Skills:          courseSkills,
		}
		if err := s.CourseRepo.Create(course); err != nil {
			return err
		}

		for i, m := range c.Modules {
			module := &model.CourseModule{
				BaseModel:       model.BaseModel{IsActive: true},
				CourseID:        course.ID,
				Title:           m.Title,
				Order:           i + 1,
				DurationMinutes: m.Minutes,
			}
			if err := s.CourseRepo.CreateModule(module); err != nil {
				return err
			}
		}
		result.Courses++
	}
	return nil
}

func (s *Seeder) seedWorkers(result *Result) error {
	allSkills, err := s.SkillRepo.FindFirst(len(skills))
	if err != nil {
		return err
	}
	levels := []model.DifficultyLevel{model.Beginner, model.Intermediate, model.Advanced, model.Expert}

	for _, w := range workers {
		user, _, err := s.ensureUser(w.personSeed, model.WorkerRole)
		if err != nil {
			return err
		}
		if _, err := s.WorkerRepo.FindByUserID(user.ID); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		department := departments[s.rnd.Intn(len(departments))]
		options := positions[department]
		position := options[s.rnd.Intn(len(options))]

		worker := &model.Worker{
			BaseModel:     model.BaseModel{IsActive: true},
			UserID:        user.ID,
			EmployeeID:    w.EmployeeID,
			Department:    department,
			Position:      position,
			Bio:           fmt.Sprintf("Experienced %s with expertise in %s.", position, department),
			DateOfJoining: s.now.AddDate(0, 0, -(30 + s.rnd.Intn(970))),
		}
		if err := s.WorkerRepo.Create(worker); err != nil {
			return err
		}

		// 随机分配 2-4 项技能
		count := 2 + s.rnd.Intn(3)
		for _, idx := range s.rnd.Perm(len(allSkills))[:min(count, len(allSkills))] {
			skill := allSkills[idx]
			ws := &model.WorkerSkill{
				BaseModel:        model.BaseModel{IsActive: true},
				WorkerID:         worker.ID,
				SkillID:          skill.ID,
				ProficiencyLevel: levels[s.rnd.Intn(len(levels))],
				Notes:            "Certified in " + skill.Name,
			}
			if err := s.WorkerRepo.UpsertSkill(ws); err != nil {
				return err
			}
		}
		result.Workers++
	}
	return nil
}
