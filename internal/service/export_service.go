package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"xmute/mutehub/internal/repository"
)

// ExportService writes the muted-user records as CSV for download.
type ExportService interface {
	WriteCSV(ctx context.Context, w io.Writer) error
}

type exportService struct {
	mutedRepo repository.MutedUserRepository
}

func NewExportService(mutedRepo repository.MutedUserRepository) ExportService {
	return &exportService{mutedRepo: mutedRepo}
}

func (s *exportService) WriteCSV(ctx context.Context, w io.Writer) error {
	users, err := s.mutedRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list muted users: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Username", "Country", "Muted Date"}); err != nil {
		return err
	}
	for _, user := range users {
		record := []string{
			user.Username,
			user.Country,
			user.MutedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
