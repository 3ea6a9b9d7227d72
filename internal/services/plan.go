package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	redisclient "github.com/studyloop/studyloop-backend/internal/clients/redis"
	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/repos"
	"github.com/studyloop/studyloop-backend/internal/requestdata"
	"github.com/studyloop/studyloop-backend/internal/scheduler"
	"github.com/studyloop/studyloop-backend/internal/types"
)

// GeneratePlanOptions mirrors the public generate request. Zero values
// fall back to the documented defaults (start now, weekends included,
// mixed style, 2h/day, 80% mastery).
type GeneratePlanOptions struct {
	ExamDate         time.Time
	ExamTitle        string
	DocumentIDs      []uuid.UUID
	LearningStyle    string
	DailyTargetHours float64
	StartDate        *time.Time
	IncludeWeekends  *bool
	MasteryThreshold int
	PriorityModes    []scheduler.Mode
}

type PlanService interface {
	GenerateStudyPlan(ctx context.Context, opts GeneratePlanOptions) (*types.StudyPlan, error)
	GetPlan(ctx context.Context, planID uuid.UUID) (*types.StudyPlan, error)
	GetActivePlans(ctx context.Context) ([]*types.StudyPlan, error)
	UpdatePlanStatus(ctx context.Context, planID uuid.UUID, status string) (bool, error)
	CompleteSession(ctx context.Context, sessionID uuid.UUID, performanceScore *float64, actualMinutes *int) (bool, error)
}

type planService struct {
	db            *gorm.DB
	log           *logger.Logger
	planRepo      repos.StudyPlanRepo
	sessionRepo   repos.StudySessionRepo
	documentRepo  repos.DocumentRepo
	analysis      AnalysisService
	cache         redisclient.PlanCache
	styleProfiles map[string]map[scheduler.Mode]int
}

func NewPlanService(
	db *gorm.DB,
	baseLog *logger.Logger,
	planRepo repos.StudyPlanRepo,
	sessionRepo repos.StudySessionRepo,
	documentRepo repos.DocumentRepo,
	analysis AnalysisService,
	cache redisclient.PlanCache,
	styleProfiles map[string]map[scheduler.Mode]int,
) PlanService {
	return &planService{
		db:            db,
		log:           baseLog.With("service", "PlanService"),
		planRepo:      planRepo,
		sessionRepo:   sessionRepo,
		documentRepo:  documentRepo,
		analysis:      analysis,
		cache:         cache,
		styleProfiles: styleProfiles,
	}
}

// fallback applied when a document has no stored analysis: zero topics,
// a flat two-hour estimate, and the plan proceeds without it.
const analysisFallbackHours = 2

func (ps *planService) GenerateStudyPlan(ctx context.Context, opts GeneratePlanOptions) (*types.StudyPlan, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("request data not set in context")
	}

	startDate := time.Now()
	if opts.StartDate != nil {
		startDate = *opts.StartDate
	}
	includeWeekends := true
	if opts.IncludeWeekends != nil {
		includeWeekends = *opts.IncludeWeekends
	}

	docInputs, err := ps.resolveDocuments(ctx, rd.UserID, opts.DocumentIDs)
	if err != nil {
		return nil, err
	}

	plan, err := scheduler.Generate(scheduler.Input{
		UserID:           rd.UserID,
		ExamTitle:        opts.ExamTitle,
		ExamDate:         opts.ExamDate,
		StartDate:        startDate,
		IncludeWeekends:  includeWeekends,
		LearningStyle:    opts.LearningStyle,
		DailyTargetHours: opts.DailyTargetHours,
		MasteryThreshold: opts.MasteryThreshold,
		PriorityModes:    opts.PriorityModes,
		Documents:        docInputs,
		StyleProfiles:    ps.styleProfiles,
	})
	if err != nil {
		return nil, err
	}

	saved, err := ps.savePlan(ctx, plan)
	if err != nil {
		return nil, err
	}
	ps.log.Info("study plan generated",
		"user_id", rd.UserID,
		"documents", len(docInputs),
		"sessions", saved.SessionsTotal,
	)
	return saved, nil
}

// resolveDocuments turns requested document ids into scheduler inputs.
// Unknown or foreign documents are skipped; a document without analysis
// contributes zero topics and the fallback hour estimate. Analysis
// lookups run concurrently, one goroutine per document.
func (ps *planService) resolveDocuments(ctx context.Context, userID uuid.UUID, documentIDs []uuid.UUID) ([]scheduler.DocumentTopics, error) {
	docs, err := ps.documentRepo.GetByIDs(ctx, nil, documentIDs)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	byID := make(map[uuid.UUID]*types.Document, len(docs))
	for _, d := range docs {
		if d.UserID == userID {
			byID[d.ID] = d
		}
	}

	var owned []*types.Document
	for _, id := range documentIDs {
		doc, ok := byID[id]
		if !ok {
			ps.log.Warn("skipping document", "document_id", id, "error", scheduler.ErrDocumentNotFound)
			continue
		}
		owned = append(owned, doc)
	}

	results := make([]*DocumentAnalysisResult, len(owned))
	g, gctx := errgroup.WithContext(ctx)
	for i, doc := range owned {
		g.Go(func() error {
			res, err := ps.analysis.GetDocumentAnalysis(gctx, doc.ID)
			if err != nil {
				ps.log.Warn("analysis lookup failed, using fallback", "document_id", doc.ID, "error", err)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]scheduler.DocumentTopics, 0, len(owned))
	for i, doc := range owned {
		res := results[i]
		if res == nil {
			ps.log.Warn("using fallback estimate for document", "document_id", doc.ID, "error", scheduler.ErrAnalysisUnavailable)
			res = &DocumentAnalysisResult{EstimatedStudyHours: analysisFallbackHours}
		}
		out = append(out, scheduler.DocumentTopics{
			DocumentID:     doc.ID,
			DocumentName:   doc.Name,
			Topics:         res.Topics,
			EstimatedHours: res.EstimatedStudyHours,
		})
	}
	return out, nil
}

// savePlan persists the generated plan and its sessions in one
// transaction, activating the plan. The in-memory plan was fully
// computed before this point, so a failed save leaves nothing partial.
func (ps *planService) savePlan(ctx context.Context, plan *scheduler.Plan) (*types.StudyPlan, error) {
	row, err := planToRow(plan)
	if err != nil {
		return nil, err
	}
	row.Status = string(scheduler.PlanActive)

	var sessionRows []*types.StudySession
	err = ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ps.planRepo.Create(ctx, tx, []*types.StudyPlan{row}); err != nil {
			return fmt.Errorf("create plan: %w", err)
		}
		sessionRows = sessionsToRows(row.ID, plan.Sessions)
		if _, err := ps.sessionRepo.Create(ctx, tx, sessionRows); err != nil {
			return fmt.Errorf("create sessions: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	row.Sessions = sessionRows
	return row, nil
}

func (ps *planService) GetPlan(ctx context.Context, planID uuid.UUID) (*types.StudyPlan, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("request data not set in context")
	}

	if ps.cache != nil {
		if plan, ok := ps.cache.GetPlan(ctx, planID, rd.UserID); ok {
			return plan, nil
		}
	}
	plan, err := ps.planRepo.GetByIDAndUser(ctx, nil, planID, rd.UserID)
	if err != nil {
		return nil, fmt.Errorf("load plan: %w", err)
	}
	if plan == nil {
		return nil, nil
	}
	if ps.cache != nil {
		ps.cache.SetPlan(ctx, plan)
	}
	return plan, nil
}

func (ps *planService) GetActivePlans(ctx context.Context) ([]*types.StudyPlan, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("request data not set in context")
	}
	plans, err := ps.planRepo.GetActiveByUserID(ctx, nil, rd.UserID)
	if err != nil {
		return nil, fmt.Errorf("load active plans: %w", err)
	}
	return plans, nil
}

var validPlanStatuses = map[string]bool{
	string(scheduler.PlanDraft):     true,
	string(scheduler.PlanActive):    true,
	string(scheduler.PlanPaused):    true,
	string(scheduler.PlanCompleted): true,
	string(scheduler.PlanAbandoned): true,
}

func (ps *planService) UpdatePlanStatus(ctx context.Context, planID uuid.UUID, status string) (bool, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return false, fmt.Errorf("request data not set in context")
	}
	if !validPlanStatuses[status] {
		return false, fmt.Errorf("invalid plan status %q", status)
	}
	ok, err := ps.planRepo.UpdateStatus(ctx, nil, planID, rd.UserID, status)
	if err != nil {
		return false, fmt.Errorf("update plan status: %w", err)
	}
	if ok && ps.cache != nil {
		ps.cache.InvalidatePlan(ctx, planID, rd.UserID)
	}
	return ok, nil
}

// CompleteSession marks a session done and rolls its time into the
// owning plan's counters. Completing an already-completed session is a
// no-op so the counters stay monotonic.
func (ps *planService) CompleteSession(ctx context.Context, sessionID uuid.UUID, performanceScore *float64, actualMinutes *int) (bool, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return false, fmt.Errorf("request data not set in context")
	}

	session, err := ps.sessionRepo.GetByIDAndUser(ctx, nil, sessionID, rd.UserID)
	if err != nil {
		return false, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return false, nil
	}
	if session.Status == string(scheduler.StatusCompleted) {
		return true, nil
	}

	minutes := session.EstimatedMinutes
	if actualMinutes != nil && *actualMinutes > 0 {
		minutes = *actualMinutes
	}

	err = ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		session.Status = string(scheduler.StatusCompleted)
		session.CompletedAt = &now
		session.ActualMinutes = actualMinutes
		session.PerformanceScore = performanceScore
		if err := ps.sessionRepo.Update(ctx, tx, session); err != nil {
			return fmt.Errorf("update session: %w", err)
		}

		plan, err := ps.planRepo.GetByIDAndUser(ctx, tx, session.PlanID, rd.UserID)
		if err != nil {
			return fmt.Errorf("load plan: %w", err)
		}
		if plan == nil {
			return fmt.Errorf("plan %s not found for session", session.PlanID)
		}
		plan.SessionsCompleted++
		plan.HoursCompleted += float64(minutes) / 60
		if err := ps.planRepo.Update(ctx, tx, plan); err != nil {
			return fmt.Errorf("update plan counters: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	if ps.cache != nil {
		ps.cache.InvalidatePlan(ctx, session.PlanID, rd.UserID)
	}
	return true, nil
}

func planToRow(plan *scheduler.Plan) (*types.StudyPlan, error) {
	modePriorities, err := json.Marshal(plan.ModePriorities)
	if err != nil {
		return nil, fmt.Errorf("marshal mode priorities: %w", err)
	}
	weakTopics, err := json.Marshal(plan.WeakTopics)
	if err != nil {
		return nil, fmt.Errorf("marshal weak topics: %w", err)
	}
	documents, err := json.Marshal(plan.Documents)
	if err != nil {
		return nil, fmt.Errorf("marshal plan documents: %w", err)
	}
	return &types.StudyPlan{
		ID:                  uuid.New(),
		UserID:              plan.UserID,
		ExamTitle:           plan.ExamTitle,
		ExamDate:            plan.ExamDate,
		StartDate:           plan.StartDate,
		Status:              string(plan.Status),
		LearningStyle:       plan.LearningStyle,
		DailyTargetHours:    plan.DailyTargetHours,
		TotalEstimatedHours: plan.TotalEstimatedHours,
		HoursCompleted:      plan.HoursCompleted,
		MasteryThreshold:    plan.MasteryThreshold,
		ModePriorities:      datatypes.JSON(modePriorities),
		WeakTopics:          datatypes.JSON(weakTopics),
		Documents:           datatypes.JSON(documents),
		SessionsCompleted:   plan.SessionsCompleted,
		SessionsTotal:       plan.SessionsTotal,
	}, nil
}

func sessionsToRows(planID uuid.UUID, sessions []scheduler.Session) []*types.StudySession {
	rows := make([]*types.StudySession, 0, len(sessions))
	for _, s := range sessions {
		var pages datatypes.JSON
		if s.TopicPages != nil {
			if raw, err := json.Marshal(s.TopicPages); err == nil {
				pages = datatypes.JSON(raw)
			}
		}
		rows = append(rows, &types.StudySession{
			ID:               uuid.New(),
			PlanID:           planID,
			UserID:           s.UserID,
			ScheduledDate:    s.ScheduledDate,
			EstimatedMinutes: s.EstimatedMinutes,
			Mode:             string(s.Mode),
			TopicTitle:       s.TopicTitle,
			DocumentID:       s.DocumentID,
			DocumentName:     s.DocumentName,
			SessionType:      string(s.SessionType),
			ReviewNumber:     s.ReviewNumber,
			Status:           string(s.Status),
			HasDailyQuiz:     s.HasDailyQuiz,
			HasWeeklyExam:    s.HasWeeklyExam,
			WeekNumber:       s.WeekNumber,
			TopicPages:       pages,
			ChapterID:        s.ChapterID,
			ChapterTitle:     s.ChapterTitle,
			IsChapterFinal:   s.IsChapterFinal,
		})
	}
	return rows
}
