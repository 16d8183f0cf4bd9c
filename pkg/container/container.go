package container

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"book-catalog/internal/config"
	infraDB "book-catalog/internal/infrastructure/database"
	"book-catalog/pkg/database"

	authorHandler "book-catalog/internal/domains/author/handler"
	authorRepo "book-catalog/internal/domains/author/repository"
	authorService "book-catalog/internal/domains/author/service"
	bookHandler "book-catalog/internal/domains/book/handler"
	bookRepo "book-catalog/internal/domains/book/repository"
	bookService "book-catalog/internal/domains/book/service"
)

// Container is the root of the dependency graph: config, then
// infrastructure, then repositories, services and handlers, each layer
// depending only on the ones before it.
type Container struct {
	Config *config.Config
	DB     *infraDB.PostgresDB
	Tx     database.TxManager

	AuthorRepo      authorRepo.RepositoryInterface
	BookRepo        bookRepo.RepositoryInterface
	AssociationRepo bookRepo.AssociationRepositoryInterface

	AuthorService authorService.ServiceInterface
	BookService   bookService.ServiceInterface

	AuthorHandler *authorHandler.AuthorHandler
	BookHandler   *bookHandler.BookHandler
}

func NewContainer(ctx context.Context) (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	db, err := infraDB.NewPostgresDB(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	if err := infraDB.EnsureSchema(ctx, db.Pool); err != nil {
		db.Close()
		return nil, err
	}

	c.Tx = database.NewTxManager(db.Pool)

	c.AuthorRepo = authorRepo.NewPostgresRepository()
	c.BookRepo = bookRepo.NewPostgresRepository()
	c.AssociationRepo = bookRepo.NewAssociationRepository()

	c.AuthorService = authorService.NewAuthorService(db.Pool, c.Tx, c.AuthorRepo, nil)
	c.BookService = bookService.NewBookService(db.Pool, c.Tx, c.AuthorRepo, c.BookRepo, c.AssociationRepo)

	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService)
	c.BookHandler = bookHandler.NewBookHandler(c.BookService)

	log.Info().Str("env", cfg.App.Environment).Msg("container initialized")
	return c, nil
}

func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
	}
}
