package database

import (
	"context"
	"time"

	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/catalog"
	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/models"
	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/users"
	"github.com/animeshelf/animeshelf/backend/catalog-service/pkg/logger"
)

var seedCategories = []string{
	"Action", "Adventure", "Demons", "Shounen", "Slice of Life", "Horror", "Sports",
}

type seedItem struct {
	name        string
	description string
	category    string
}

var seedItems = []seedItem{
	{"Shingeki no Kyojin", "Humanity survives behind enormous concentric walls, until a colossal titan breaches the outer one.", "Action"},
	{"Fullmetal Alchemist: Brotherhood", "Two brothers pay alchemy's terrible price and set out after the Philosopher's Stone.", "Action"},
	{"Hunter x Hunter", "Gon Freecss takes the deadly Hunter Exam in search of his missing father.", "Adventure"},
	{"Kimetsu no Yaiba", "Tanjirou joins the Demon Slayer Corps to avenge his family and save his sister.", "Demons"},
	{"Boku no Hero Academia", "A powerless boy inherits the number one hero's quirk and enrolls at UA High.", "Shounen"},
	{"Toradora!", "An odd duo forms an unlikely alliance to help each other with their crushes.", "Slice of Life"},
	{"Another", "A transfer student uncovers the gruesome phenomenon plaguing class 3-3.", "Horror"},
	{"Haikyuu!!", "Short-statured Hinata joins his sworn rival on Karasuno's volleyball team.", "Sports"},
}

// Seed bootstraps categories and a handful of sample items under a seed user.
// It is a no-op when categories already exist, so restarting the service
// never duplicates data.
func Seed(ctx context.Context, repo catalog.Repository, userSvc *users.Service) error {
	existing, err := repo.Categories(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Debugf("seed skipped: %d categories already present", len(existing))
		return nil
	}

	owner, err := userSvc.ResolveOrCreate(ctx, "test123@gmail.com", "Test User", "")
	if err != nil {
		return err
	}

	byName := make(map[string]uint, len(seedCategories))
	for _, name := range seedCategories {
		c := &models.Category{Name: name}
		if err := repo.CreateCategory(ctx, c); err != nil {
			return err
		}
		byName[name] = c.ID
	}

	now := time.Now().UTC()
	for idx, it := range seedItems {
		item := &models.Item{
			Name:        it.name,
			Description: it.description,
			CategoryID:  byName[it.category],
			UserID:      owner.ID,
			// spread creation times so "latest" ordering is stable
			CreatedAt: now.Add(time.Duration(idx-len(seedItems)) * time.Minute),
		}
		if err := repo.CreateItem(ctx, item); err != nil {
			return err
		}
	}

	logger.Infof("seeded %d categories and %d items", len(seedCategories), len(seedItems))
	return nil
}
