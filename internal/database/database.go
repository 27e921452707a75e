package database

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/koboreader/internal/entities"
)

const (
	SourceKobo   = "kobo"
	SourceManual = "manual"
)

var defaultSources = []entities.Source{
	{Name: SourceKobo, DisplayName: "Kobo"},
	{Name: SourceManual, DisplayName: "Manual Import"},
}

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Source{},
		&entities.Book{},
		&entities.Highlight{},
		&entities.Word{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.seedSources(); err != nil {
		return nil, fmt.Errorf("failed to seed sources: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) seedSources() error {
	for _, source := range defaultSources {
		var existing entities.Source
		result := d.DB.Where("name = ?", source.Name).First(&existing)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			if err := d.DB.Create(&source).Error; err != nil {
				return fmt.Errorf("failed to create source %s: %w", source.Name, err)
			}
		}
	}
	return nil
}

func (d *Database) GetSourceByName(name string) (*entities.Source, error) {
	var source entities.Source
	err := d.DB.Where("name = ?", name).First(&source).Error
	if err != nil {
		return nil, err
	}
	return &source, nil
}

func (d *Database) resolveSourceID(source entities.Source) uint {
	if source.ID != 0 || source.Name == "" {
		return source.ID
	}
	found, err := d.GetSourceByName(source.Name)
	if err != nil {
		return 0
	}
	return found.ID
}

// SaveBook upserts a book and its highlights. Books are matched by external
// ID within their source, falling back to title and author; highlights are
// matched by external ID so re-importing the same device is idempotent.
func (d *Database) SaveBook(book *entities.Book) error {
	originalSource := book.Source
	if book.SourceID == 0 {
		book.SourceID = d.resolveSourceID(book.Source)
	}
	book.Source = entities.Source{}
	for i := range book.Highlights {
		h := &book.Highlights[i]
		if h.SourceID == 0 {
			h.SourceID = d.resolveSourceID(h.Source)
		}
		if h.SourceID == 0 {
			h.SourceID = book.SourceID
		}
		h.Source = entities.Source{}
	}
	defer func() { book.Source = originalSource }()

	existing, err := d.findExistingBook(book)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if existing == nil {
		return d.DB.Create(book).Error
	}

	book.ID = existing.ID
	book.CreatedAt = existing.CreatedAt

	known := make(map[string]entities.Highlight, len(existing.Highlights))
	for _, h := range existing.Highlights {
		known[highlightKey(h)] = h
	}
	for i := range book.Highlights {
		h := &book.Highlights[i]
		if prev, ok := known[highlightKey(*h)]; ok {
			h.ID = prev.ID
			h.CreatedAt = prev.CreatedAt
		}
		h.BookID = book.ID
	}

	return d.DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(book).Error
}

func (d *Database) findExistingBook(book *entities.Book) (*entities.Book, error) {
	var existing entities.Book
	query := d.DB.Preload("Highlights")
	if book.ExternalID != "" {
		query = query.Where("external_id = ? AND source_id = ?", book.ExternalID, book.SourceID)
	} else {
		query = query.Where("title = ? AND author = ?", book.Title, book.Author)
	}
	if err := query.First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func highlightKey(h entities.Highlight) string {
	if h.ExternalID != "" {
		return "id|" + h.ExternalID
	}
	return fmt.Sprintf("text|%s|%s", h.Text, h.HighlightedAt.Format("2006-01-02 15:04:05"))
}

func (d *Database) GetAllBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := d.DB.Preload("Highlights", func(db *gorm.DB) *gorm.DB {
		return db.Order("highlighted_at ASC")
	}).Preload("Source").Order("title ASC").Find(&books).Error
	return books, err
}

func (d *Database) GetBookByTitleAndAuthor(title, author string) (*entities.Book, error) {
	var book entities.Book
	err := d.DB.Preload("Highlights", func(db *gorm.DB) *gorm.DB {
		return db.Order("highlighted_at ASC")
	}).Preload("Source").Where("title = ? AND author = ?", title, author).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (d *Database) GetBookByExternalID(externalID string) (*entities.Book, error) {
	var book entities.Book
	err := d.DB.Preload("Highlights").Preload("Source").Where("external_id = ?", externalID).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

type Stats struct {
	Books      int64
	Highlights int64
	Words      int64
}

func (d *Database) GetStats() (Stats, error) {
	var stats Stats
	if err := d.DB.Model(&entities.Book{}).Count(&stats.Books).Error; err != nil {
		return stats, err
	}
	if err := d.DB.Model(&entities.Highlight{}).Count(&stats.Highlights).Error; err != nil {
		return stats, err
	}
	err := d.DB.Model(&entities.Word{}).Count(&stats.Words).Error
	return stats, err
}
