package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"prepmate/internal/cache"
	"prepmate/internal/model"
	"prepmate/internal/search"
)

// newsLookbackDays bounds the recent-news search window
const newsLookbackDays = 180

// ResearchService fronts the web search collaborator with the TTL cache.
// A cache miss (or an explicit force refresh) researches all four fields
// and writes them through as one unit with a single fresh timestamp.
type ResearchService struct {
	cache    cache.ResearchCache
	searcher search.Searcher
}

// NewResearchService creates a new research service
func NewResearchService(researchCache cache.ResearchCache, searcher search.Searcher) *ResearchService {
	return &ResearchService{
		cache:    researchCache,
		searcher: searcher,
	}
}

// GetResearch returns company research, cached when fresh. On a search
// failure it returns degraded data plus the error; the caller records the
// error and continues.
func (s *ResearchService) GetResearch(ctx context.Context, company, position string, forceRefresh bool) (*model.ResearchData, error) {
	if !forceRefresh {
		entry, err := s.cache.Get(ctx, company)
		if err == nil {
			log.Printf("Using cached research for %s", company)
			return assembleResearchData(entry, position, true), nil
		}
		if err != cache.ErrCacheMiss {
			// A broken cache should not block research
			log.Printf("research cache read failed for %s: %v", company, err)
		}
	}

	log.Printf("Researching %s...", company)
	return s.refresh(ctx, company, position)
}

// refresh researches all four fields and writes them through together
func (s *ResearchService) refresh(ctx context.Context, company, position string) (*model.ResearchData, error) {
	overview, err := s.searcher.CompanyOverview(ctx, company)
	if err != nil {
		return degradedResearch(company, position, err), fmt.Errorf("company overview search: %w", err)
	}
	culture, err := s.searcher.CompanyCulture(ctx, company)
	if err != nil {
		return degradedResearch(company, position, err), fmt.Errorf("company culture search: %w", err)
	}
	news, err := s.searcher.RecentNews(ctx, company, newsLookbackDays)
	if err != nil {
		return degradedResearch(company, position, err), fmt.Errorf("recent news search: %w", err)
	}
	insights, err := s.searcher.PositionInsights(ctx, company, position)
	if err != nil {
		return degradedResearch(company, position, err), fmt.Errorf("position insights search: %w", err)
	}

	entry := &model.ResearchEntry{
		Company:  company,
		Position: position,
		Fields: map[string]model.ResearchField{
			model.ResearchFieldOverview:         {Content: overview.Summary, Sources: overview.Sources},
			model.ResearchFieldCulture:          {Content: culture.Summary, Sources: culture.Sources},
			model.ResearchFieldNews:             {Content: news.Summary, Sources: news.Sources},
			model.ResearchFieldPositionAnalysis: {Content: insights.Summary, Sources: insights.Sources},
		},
	}

	if err := s.cache.Save(ctx, entry); err != nil {
		// Failing to cache is not failing to research
		log.Printf("failed to cache research for %s: %v", company, err)
	} else {
		log.Printf("Research completed and cached for %s", company)
	}

	return assembleResearchData(entry, position, false), nil
}

func assembleResearchData(entry *model.ResearchEntry, position string, fromCache bool) *model.ResearchData {
	data := &model.ResearchData{
		CompanyName: entry.Company,
		Position:    position,
		Sources:     make(map[string][]string),
		FromCache:   fromCache,
	}

	for name, f := range entry.Fields {
		switch name {
		case model.ResearchFieldOverview:
			data.Overview = f.Content
		case model.ResearchFieldCulture:
			data.Culture = f.Content
		case model.ResearchFieldNews:
			data.News = f.Content
		case model.ResearchFieldPositionAnalysis:
			data.PositionAnalysis = f.Content
		}
		if len(f.Sources) > 0 {
			data.Sources[name] = f.Sources
		}
		if f.FetchedAt.After(data.FetchedAt) {
			data.FetchedAt = f.FetchedAt
		}
	}

	if data.FetchedAt.IsZero() {
		data.FetchedAt = time.Now()
	}

	return data
}

func degradedResearch(company, position string, err error) *model.ResearchData {
	return &model.ResearchData{
		CompanyName: company,
		Position:    position,
		Overview:    fmt.Sprintf("Error researching %s: %v", company, err),
		FetchedAt:   time.Now(),
	}
}
