package service

import (
	"context"
	"fmt"
	"strings"

	"prepmate/internal/model"
	"prepmate/internal/repository"
)

// RetrievalService serves read-only candidate and company context to the
// answer pipeline
type RetrievalService struct {
	profiles repository.ProfileRepo
	research *ResearchService
}

// NewRetrievalService creates a new retrieval service
func NewRetrievalService(profiles repository.ProfileRepo, research *ResearchService) *RetrievalService {
	return &RetrievalService{
		profiles: profiles,
		research: research,
	}
}

// CV returns CV text relevant to the query
func (s *RetrievalService) CV(ctx context.Context, query string) (string, error) {
	return s.profiles.Text(ctx, model.ProfileKindCV, query)
}

// Experience returns past-experience write-ups relevant to the query
func (s *RetrievalService) Experience(ctx context.Context, query string) (string, error) {
	return s.profiles.Text(ctx, model.ProfileKindExperience, query)
}

// Personality returns the latest personality profile, or empty
func (s *RetrievalService) Personality(ctx context.Context) (string, error) {
	doc, err := s.profiles.Latest(ctx, model.ProfileKindPersonality)
	if err != nil {
		return "", err
	}
	if doc == nil {
		return "", nil
	}
	return doc.Text, nil
}

// CompanyResearch returns formatted research context for a company,
// served from the cache when fresh
func (s *RetrievalService) CompanyResearch(ctx context.Context, company, position string) (string, error) {
	data, err := s.research.GetResearch(ctx, company, position, false)
	if err != nil {
		return "", err
	}
	return FormatResearch(data), nil
}

// FormatResearch renders research data as prompt-ready text
func FormatResearch(data *model.ResearchData) string {
	if data == nil {
		return ""
	}

	var b strings.Builder
	write := func(label, content string) {
		if content != "" {
			fmt.Fprintf(&b, "%s:\n%s\n\n", label, content)
		}
	}
	write("Company overview", data.Overview)
	write("Culture", data.Culture)
	write("Recent news", data.News)
	write("Position analysis", data.PositionAnalysis)

	return strings.TrimSpace(b.String())
}
