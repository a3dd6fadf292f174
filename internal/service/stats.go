package service

import (
	"context"

	"SafeShare/internal/ledger"
	"SafeShare/internal/model"
	"SafeShare/internal/repo"
)

// DashboardStats — агрегаты для панели.
type DashboardStats struct {
	TotalFiles       int64              `json:"totalFiles"`
	TotalUsers       int64              `json:"totalUsers"`
	SecurityAlerts   int                `json:"securityAlerts"`
	StorageUsedBytes int64              `json:"storageUsedBytes"`
	ThreatDetections int                `json:"threatDetections"`
	RecentActivity   []model.AuditEntry `json:"recentActivity"`
}

// recentActivityLimit — сколько последних событий попадает в сводку.
const recentActivityLimit = 10

// StatsService собирает сводку по файлам, пользователям и журналу аудита.
type StatsService struct {
	files  repo.FileRepository
	users  repo.UserRepository
	ledger *ledger.Ledger
}

func NewStatsService(files repo.FileRepository, users repo.UserRepository, l *ledger.Ledger) *StatsService {
	return &StatsService{files: files, users: users, ledger: l}
}

// Dashboard возвращает агрегированную сводку.
func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	totalFiles, err := s.files.CountFiles(ctx)
	if err != nil {
		return nil, err
	}
	totalUsers, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	storage, err := s.files.SumSizes(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalFiles:       totalFiles,
		TotalUsers:       totalUsers,
		SecurityAlerts:   len(s.ledger.HighRisk()),
		StorageUsedBytes: storage,
		ThreatDetections: s.ledger.CountAction(model.ActionThreatDetected),
		RecentActivity:   s.ledger.Query(ledger.Filter{Limit: recentActivityLimit}),
	}, nil
}
