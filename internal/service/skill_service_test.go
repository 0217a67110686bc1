package service

import (
	"testing"

	"skilldev_backend/internal/model"
	"skilldev_backend/internal/repository"
	"skilldev_backend/internal/testdb"
	"skilldev_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSkillWithoutPrerequisites(t *testing.T) {
	s := newTestServices(t)
	category := testdb.CreateCategory(t, s.db, "Design")

	skill, err := s.skill.CreateSkill(SkillRequest{Name: " Figma ", CategoryID: category.ID})
	require.NoError(t, err)
	assert.Equal(t, "Figma", skill.Name)
	assert.Equal(t, model.Beginner, skill.DifficultyLevel)
	assert.Equal(t, 40, skill.EstimatedDurationHours)

	detail, err := s.skill.GetSkillDetail(skill.ID)
	require.NoError(t, err)
	assert.NotNil(t, detail.Skill.Prerequisites)
	assert.Empty(t, detail.Skill.Prerequisites)
	assert.Equal(t, "Design", detail.Skill.Category.Name)
}

func TestCreateSkillValidation(t *testing.T) {
	s := newTestServices(t)
	category := testdb.CreateCategory(t, s.db, "Business")

	_, err := s.skill.CreateSkill(SkillRequest{Name: "X", CategoryID: category.ID, DifficultyLevel: "legendary"})
	assert.ErrorIs(t, err, util.ErrInvalidDifficulty)

	_, err = s.skill.CreateSkill(SkillRequest{Name: "X", CategoryID: 999})
	assert.ErrorIs(t, err, util.ErrCategoryNotFound)

	_, err = s.skill.CreateSkill(SkillRequest{Name: "X", CategoryID: category.ID, PrerequisiteIDs: []uint{999}})
	assert.ErrorIs(t, err, util.ErrSkillNotFound)
}

func TestSkillDetailPrerequisitesAndReverseView(t *testing.T) {
	s := newTestServices(t)
	tech := testdb.CreateCategory(t, s.db, "Technology")
	python := testdb.CreateSkill(t, s.db, tech, "Python", model.Intermediate)
	js := testdb.CreateSkill(t, s.db, tech, "JavaScript", model.Intermediate)

	fullStack, err := s.skill.CreateSkill(SkillRequest{
		Name:            "Full Stack",
		CategoryID:      tech.ID,
		DifficultyLevel: model.Advanced,
		PrerequisiteIDs: []uint{python.ID, js.ID, js.ID},
	})
	require.NoError(t, err)
	assert.Len(t, fullStack.Prerequisites, 2)

	detail, err := s.skill.GetSkillDetail(python.ID)
	require.NoError(t, err)
	require.Len(t, detail.RequiredFor, 1)
	assert.Equal(t, "Full Stack", detail.RequiredFor[0].Name)
	assert.Len(t, detail.Related, 2)

	updated, err := s.skill.RemovePrerequisite(fullStack.ID, js.ID)
	require.NoError(t, err)
	require.Len(t, updated.Prerequisites, 1)
	assert.Equal(t, python.ID, updated.Prerequisites[0].ID)
}

func TestPrerequisiteCyclesAreAccepted(t *testing.T) {
	s := newTestServices(t)
	tech := testdb.CreateCategory(t, s.db, "Technology")
	a := testdb.CreateSkill(t, s.db, tech, "A", model.Beginner)
	b := testdb.CreateSkill(t, s.db, tech, "B", model.Beginner, a)

	updated, err := s.skill.AddPrerequisite(a.ID, b.ID)
	require.NoError(t, err)
	require.Len(t, updated.Prerequisites, 1)
	assert.Equal(t, b.ID, updated.Prerequisites[0].ID)

	_, err = s.skill.AddPrerequisite(a.ID, 999)
	assert.ErrorIs(t, err, util.ErrSkillNotFound)
}

func TestListSkillsFilters(t *testing.T) {
	s := newTestServices(t)
	tech := testdb.CreateCategory(t, s.db, "Technology")
	soft := testdb.CreateCategory(t, s.db, "Soft Skills")
	testdb.CreateSkill(t, s.db, tech, "Go Programming", model.Intermediate)
	testdb.CreateSkill(t, s.db, tech, "Kubernetes", model.Advanced)
	testdb.CreateSkill(t, s.db, soft, "Leadership", model.Intermediate)
	hidden := testdb.CreateSkill(t, s.db, soft, "Old Skill", model.Beginner)
	testdb.Deactivate(t, s.db, hidden)

	all, err := s.skill.ListSkills(repository.SkillFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byCategory, err := s.skill.ListSkills(repository.SkillFilter{CategoryID: tech.ID})
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	byLevel, err := s.skill.ListSkills(repository.SkillFilter{Difficulty: model.Intermediate, Query: " lead "})
	require.NoError(t, err)
	require.Len(t, byLevel, 1)
	assert.Equal(t, "Leadership", byLevel[0].Name)

	_, err = s.skill.GetSkillDetail(hidden.ID)
	assert.ErrorIs(t, err, util.ErrSkillNotFound)
}

func TestCategoriesWithoutCache(t *testing.T) {
	s := newTestServices(t)
	_, err := s.skill.CreateCategory(CategoryRequest{Name: "Marketing", Icon: "fas fa-bullhorn"})
	require.NoError(t, err)
	_, err = s.skill.CreateCategory(CategoryRequest{Name: "Data Science"})
	require.NoError(t, err)

	categories, err := s.skill.ListCategories()
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Data Science", categories[0].Name)
}
