package repositories_test

import (
	"fmt"
	"testing"

	"refugio/internal/models"
	"refugio/internal/repositories"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupDB opens a test-scoped in-memory SQLite database with the schema and
// the active-adoption index applied.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)

	assert.NoError(t, db.AutoMigrate(&models.User{}, &models.Pet{}, &models.Adoption{}))
	assert.NoError(t, repositories.MigrateActiveAdoptionIndex(db))
	return db
}

func seedUserAndPet(t *testing.T, db *gorm.DB) (*models.User, *models.Pet) {
	t.Helper()

	userRepo := repositories.NewGORMUserRepository(db)
	petRepo := repositories.NewGORMPetRepository(db)

	user := &models.User{
		Username: "ana", Email: "ana@example.com", Password: "hashed", Role: models.RoleUser,
	}
	assert.NoError(t, userRepo.Create(user))

	pet := &models.Pet{
		Chip: "chip-001", Name: "Luna", Age: 3,
		Sex: models.SexFemale, Size: models.SizeMedium, Species: models.SpeciesDog,
		ImageURL: "https://images.invalid/pets/luna.jpg",
	}
	assert.NoError(t, petRepo.Create(pet))
	return user, pet
}

func TestGORMAdoptionRepository_CreateConflict(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMAdoptionRepository(db)
	user, pet := seedUserAndPet(t, db)

	first := &models.Adoption{UserID: user.ID, PetID: pet.ID, Status: models.StatusPending}
	assert.NoError(t, repo.Create(first))

	// A second non-Rejected adoption for the same pet is refused.
	second := &models.Adoption{UserID: "someone", PetID: pet.ID, Status: models.StatusPending}
	err := repo.Create(second)
	assert.ErrorIs(t, err, repositories.ErrActiveAdoptionExists)

	// Rejecting the first frees the pet for a new request.
	first.Status = models.StatusRejected
	assert.NoError(t, repo.Update(first))

	third := &models.Adoption{UserID: "someone", PetID: pet.ID, Status: models.StatusPending}
	assert.NoError(t, repo.Create(third))
}

func TestGORMAdoptionRepository_UpdateConflict(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMAdoptionRepository(db)
	user, pet := seedUserAndPet(t, db)

	first := &models.Adoption{UserID: user.ID, PetID: pet.ID, Status: models.StatusPending}
	assert.NoError(t, repo.Create(first))

	first.Status = models.StatusRejected
	assert.NoError(t, repo.Update(first))

	second := &models.Adoption{UserID: "someone", PetID: pet.ID, Status: models.StatusPending}
	assert.NoError(t, repo.Create(second))

	// Un-rejecting the first record trips the partial unique index: the pet
	// would otherwise carry two active adoptions.
	first.Status = models.StatusPending
	err := repo.Update(first)
	assert.ErrorIs(t, err, repositories.ErrActiveAdoptionExists)

	active, err := repo.FindActiveByPet(pet.ID)
	assert.NoError(t, err)
	assert.NotNil(t, active)
	assert.Equal(t, second.ID, active.ID)
}

func TestGORMAdoptionRepository_FindActiveByPet(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMAdoptionRepository(db)
	user, pet := seedUserAndPet(t, db)

	active, err := repo.FindActiveByPet(pet.ID)
	assert.NoError(t, err)
	assert.Nil(t, active)

	adoption := &models.Adoption{UserID: user.ID, PetID: pet.ID, Status: models.StatusPending}
	assert.NoError(t, repo.Create(adoption))

	active, err = repo.FindActiveByPet(pet.ID)
	assert.NoError(t, err)
	assert.NotNil(t, active)
	assert.Equal(t, adoption.ID, active.ID)

	// A Rejected adoption is not active.
	adoption.Status = models.StatusRejected
	assert.NoError(t, repo.Update(adoption))

	active, err = repo.FindActiveByPet(pet.ID)
	assert.NoError(t, err)
	assert.Nil(t, active)
}

func TestGORMAdoptionRepository_ActivePetIDs(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMAdoptionRepository(db)
	petRepo := repositories.NewGORMPetRepository(db)
	user, pet := seedUserAndPet(t, db)

	rejectedPet := &models.Pet{
		Chip: "chip-002", Name: "Michi", Age: 2,
		Sex: models.SexMale, Size: models.SizeSmall, Species: models.SpeciesCat,
		ImageURL: "https://images.invalid/pets/michi.jpg",
	}
	assert.NoError(t, petRepo.Create(rejectedPet))

	assert.NoError(t, repo.Create(&models.Adoption{UserID: user.ID, PetID: pet.ID, Status: models.StatusApproved}))
	assert.NoError(t, repo.Create(&models.Adoption{UserID: user.ID, PetID: rejectedPet.ID, Status: models.StatusRejected}))

	ids, err := repo.ActivePetIDs()
	assert.NoError(t, err)
	assert.Equal(t, []string{pet.ID}, ids)
}

func TestGORMAdoptionRepository_GetByUserResolvesReferences(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMAdoptionRepository(db)
	user, pet := seedUserAndPet(t, db)

	assert.NoError(t, repo.Create(&models.Adoption{UserID: user.ID, PetID: pet.ID, Status: models.StatusPending}))

	adoptions, err := repo.GetByUser(user.ID)
	assert.NoError(t, err)
	assert.Len(t, adoptions, 1)
	// User and pet come back resolved, not as bare references.
	assert.NotNil(t, adoptions[0].User)
	assert.NotNil(t, adoptions[0].Pet)
	assert.Equal(t, user.Username, adoptions[0].User.Username)
	assert.Equal(t, pet.Chip, adoptions[0].Pet.Chip)
}

func TestGORMAdoptionRepository_GetByIDNotFound(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMAdoptionRepository(db)

	_, err := repo.GetByID("no-such-adoption")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMAdoptionRepository_DeleteByUser(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMAdoptionRepository(db)
	user, pet := seedUserAndPet(t, db)

	assert.NoError(t, repo.Create(&models.Adoption{UserID: user.ID, PetID: pet.ID, Status: models.StatusPending}))
	assert.NoError(t, repo.DeleteByUser(user.ID))

	adoptions, err := repo.GetAll()
	assert.NoError(t, err)
	assert.Empty(t, adoptions)

	// Deleting with no rows is not an error.
	assert.NoError(t, repo.DeleteByUser(user.ID))
}
