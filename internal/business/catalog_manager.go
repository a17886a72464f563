package business

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/Agurato/imdb-data/internal/model"
)

var (
	ErrInvalidID  = errors.New("invalid title ID")
	ErrEmptyQuery = errors.New("empty search query")
)

var titleIDRegex = regexp.MustCompile(`^tt\d+$`)

type PageFetcher interface {
	FetchTitle(ctx context.Context, id string) (*goquery.Document, error)
	FetchReviews(ctx context.Context, id string) (*goquery.Document, error)
	FetchSearch(ctx context.Context, query string) (*goquery.Document, error)
}

type CatalogManager struct {
	PageFetcher
	assembler *Assembler
}

func NewCatalogManager(pf PageFetcher, a *Assembler) *CatalogManager {
	return &CatalogManager{
		PageFetcher: pf,
		assembler:   a,
	}
}

// GetTitle returns the information of a movie or TV show from its ID
func (cm CatalogManager) GetTitle(ctx context.Context, id string) (*model.Title, error) {
	id, err := checkID(id)
	if err != nil {
		return nil, err
	}
	doc, err := cm.PageFetcher.FetchTitle(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get title page of '%s': %w", id, err)
	}
	title := cm.assembler.AssembleTitle(doc)
	if !title.Title.Found {
		log.Warn().Str("imdb_id", id).Msg("No title found on title page")
	}
	return &title, nil
}

// GetReviews returns the first user reviews of a movie or TV show from its ID
func (cm CatalogManager) GetReviews(ctx context.Context, id string) ([]model.Review, error) {
	id, err := checkID(id)
	if err != nil {
		return nil, err
	}
	doc, err := cm.PageFetcher.FetchReviews(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get reviews page of '%s': %w", id, err)
	}
	return cm.assembler.AssembleReviews(doc), nil
}

// Search returns the first titles matching a query
func (cm CatalogManager) Search(ctx context.Context, query string) ([]model.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	doc, err := cm.PageFetcher.FetchSearch(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not get search page for '%s': %w", query, err)
	}
	return cm.assembler.AssembleSearch(doc), nil
}

func checkID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if !titleIDRegex.MatchString(id) {
		return "", fmt.Errorf("%w: '%s'", ErrInvalidID, id)
	}
	return id, nil
}
