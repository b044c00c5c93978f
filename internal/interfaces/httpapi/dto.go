package httpapi

import (
	"time"

	"github.com/riskibarqy/diskichat-admin/internal/domain/analytics"
	"github.com/riskibarqy/diskichat-admin/internal/domain/banter"
	"github.com/riskibarqy/diskichat-admin/internal/domain/competition"
	"github.com/riskibarqy/diskichat-admin/internal/domain/ledger"
	"github.com/riskibarqy/diskichat-admin/internal/domain/match"
	"github.com/riskibarqy/diskichat-admin/internal/domain/team"
	"github.com/riskibarqy/diskichat-admin/internal/domain/user"
	"github.com/riskibarqy/diskichat-admin/internal/usecase"
)

type matchRequest struct {
	HomeTeam        string `json:"homeTeam" validate:"required,max=120"`
	HomeTeamID      int64  `json:"homeTeamId" validate:"gte=0"`
	AwayTeam        string `json:"awayTeam" validate:"required,max=120"`
	AwayTeamID      int64  `json:"awayTeamId" validate:"gte=0"`
	HomeLogo        string `json:"homeLogo" validate:"max=2048"`
	AwayLogo        string `json:"awayLogo" validate:"max=2048"`
	HomeScore       int    `json:"homeScore" validate:"gte=0"`
	AwayScore       int    `json:"awayScore" validate:"gte=0"`
	Status          string `json:"status" validate:"required"`
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	Time            string `json:"time" validate:"required,datetime=15:04"`
	Venue           string `json:"venue" validate:"max=200"`
	CompetitionID   int64  `json:"competitionId" validate:"gte=0"`
	CompetitionName string `json:"competitionName" validate:"max=120"`
}

func (r matchRequest) toInput() usecase.MatchInput {
	return usecase.MatchInput{
		HomeTeam:        r.HomeTeam,
		HomeTeamID:      r.HomeTeamID,
		AwayTeam:        r.AwayTeam,
		AwayTeamID:      r.AwayTeamID,
		HomeLogo:        r.HomeLogo,
		AwayLogo:        r.AwayLogo,
		HomeScore:       r.HomeScore,
		AwayScore:       r.AwayScore,
		Status:          r.Status,
		Date:            r.Date,
		Time:            r.Time,
		Venue:           r.Venue,
		CompetitionID:   r.CompetitionID,
		CompetitionName: r.CompetitionName,
	}
}

type matchOfTheDayRequest struct {
	IsMatchOfTheDay *bool `json:"isMatchOfTheDay" validate:"required"`
}

type importRequest struct {
	FixtureIDs []int64             `json:"fixture_ids" validate:"required,min=1,max=100,dive,gt=0"`
	Summaries  []fixtureSummaryDTO `json:"summaries" validate:"omitempty,dive"`
}

type teamSyncRequest struct {
	CompetitionID int64 `json:"competition_id" validate:"required,gt=0"`
	Season        int   `json:"season" validate:"gte=0"`
}

type competitionSyncRequest struct {
	IDs []int64 `json:"ids" validate:"omitempty,max=50,dive,gt=0"`
}

type userStatusRequest struct {
	Status string `json:"status" validate:"required,max=20"`
	Reason string `json:"reason" validate:"max=500"`
}

type broadcastRequest struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

type internalJobRequest struct {
	DispatchID string `json:"dispatch_id"`
	Force      bool   `json:"force"`
}

type matchDTO struct {
	ID              string           `json:"id"`
	HomeTeam        string           `json:"homeTeam"`
	HomeTeamID      int64            `json:"homeTeamId,omitempty"`
	AwayTeam        string           `json:"awayTeam"`
	AwayTeamID      int64            `json:"awayTeamId,omitempty"`
	HomeLogo        string           `json:"homeLogo"`
	AwayLogo        string           `json:"awayLogo"`
	HomeScore       int              `json:"homeScore"`
	AwayScore       int              `json:"awayScore"`
	Status          string           `json:"status"`
	Date            string           `json:"date"`
	Time            string           `json:"time"`
	Venue           string           `json:"venue"`
	CompetitionID   int64            `json:"competitionId,omitempty"`
	CompetitionName string           `json:"competitionName"`
	APIMatchID      int64            `json:"apiMatchId,omitempty"`
	MatchDate       string           `json:"matchDate"`
	Lineups         []map[string]any `json:"lineups"`
	Events          []map[string]any `json:"events"`
	IsMatchOfTheDay bool             `json:"isMatchOfTheDay"`
	CreatedAt       string           `json:"createdAt"`
	UpdatedAt       string           `json:"updatedAt"`
}

type matchWriteDTO struct {
	Match       matchDTO `json:"match"`
	Live        bool     `json:"live"`
	RoomCreated bool     `json:"roomCreated"`
	Retracted   bool     `json:"retracted"`
}

type liveFixtureDTO struct {
	StatusShort string           `json:"statusShort"`
	StatusLong  string           `json:"statusLong"`
	Lifecycle   string           `json:"lifecycle"`
	Elapsed     int              `json:"elapsed"`
	HomeGoals   *int             `json:"homeGoals"`
	AwayGoals   *int             `json:"awayGoals"`
	Lineups     []map[string]any `json:"lineups"`
	Events      []map[string]any `json:"events"`
}

type matchDetailsDTO struct {
	Match    matchDTO        `json:"match"`
	Live     *liveFixtureDTO `json:"live,omitempty"`
	Warning  string          `json:"warning,omitempty"`
	Presence []presenceDTO   `json:"presence"`
}

type presenceDTO struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	LastActive  string `json:"lastActive"`
}

type fixtureSummaryDTO struct {
	ID              int64  `json:"id" validate:"gt=0"`
	KickoffAt       string `json:"kickoff_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	StatusShort     string `json:"status_short"`
	StatusLong      string `json:"status_long"`
	Venue           string `json:"venue"`
	CompetitionID   int64  `json:"competition_id"`
	CompetitionName string `json:"competition_name"`
	Round           string `json:"round"`
	HomeTeamID      int64  `json:"home_team_id"`
	HomeTeam        string `json:"home_team"`
	HomeLogo        string `json:"home_logo"`
	AwayTeamID      int64  `json:"away_team_id"`
	AwayTeam        string `json:"away_team"`
	AwayLogo        string `json:"away_logo"`
	HomeGoals       *int   `json:"home_goals"`
	AwayGoals       *int   `json:"away_goals"`
	Lifecycle       string `json:"lifecycle,omitempty"`
	Imported        bool   `json:"imported"`
}

func (d fixtureSummaryDTO) toExternal() usecase.ExternalFixture {
	kickoff, _ := time.Parse(time.RFC3339, d.KickoffAt)
	return usecase.ExternalFixture{
		ID:              d.ID,
		KickoffAt:       kickoff,
		StatusShort:     d.StatusShort,
		StatusLong:      d.StatusLong,
		Venue:           d.Venue,
		CompetitionID:   d.CompetitionID,
		CompetitionName: d.CompetitionName,
		Round:           d.Round,
		HomeTeamID:      d.HomeTeamID,
		HomeTeam:        d.HomeTeam,
		HomeLogo:        d.HomeLogo,
		AwayTeamID:      d.AwayTeamID,
		AwayTeam:        d.AwayTeam,
		AwayLogo:        d.AwayLogo,
		HomeGoals:       d.HomeGoals,
		AwayGoals:       d.AwayGoals,
	}
}

type teamDTO struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Code          string `json:"code"`
	Country       string `json:"country"`
	Founded       int    `json:"founded"`
	National      bool   `json:"national"`
	Logo          string `json:"logo"`
	VenueName     string `json:"venue_name"`
	VenueCity     string `json:"venue_city"`
	VenueCapacity int    `json:"venue_capacity"`
	Season        int    `json:"season"`
}

type competitionDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Logo        string `json:"logo"`
	CountryName string `json:"country_name"`
	CountryCode string `json:"country_code"`
	CountryFlag string `json:"country_flag"`
	SeasonYear  int    `json:"season_year"`
}

type userDTO struct {
	ID               string `json:"id"`
	Username         string `json:"username"`
	DisplayName      string `json:"displayName"`
	Email            string `json:"email"`
	AvatarURL        string `json:"avatarUrl"`
	FavoriteTeam     string `json:"favoriteTeam"`
	FavoriteTeamLogo string `json:"favoriteTeamLogo"`
	Points           int    `json:"points"`
	Rank             int    `json:"rank"`
	Status           string `json:"status"`
	CreatedAt        string `json:"createdAt,omitempty"`
}

type moderationEventDTO struct {
	ID         string `json:"id"`
	Actor      string `json:"actor"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	Reason     string `json:"reason,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

type syncRunDTO struct {
	ID         string            `json:"id"`
	Kind       string            `json:"kind"`
	Trigger    string            `json:"trigger"`
	StartedAt  string            `json:"started_at"`
	FinishedAt string            `json:"finished_at"`
	Total      int               `json:"total"`
	Succeeded  int               `json:"succeeded"`
	Failed     int               `json:"failed"`
	Items      []syncItemDTO `json:"items"`
}

type syncItemDTO struct {
	Ref     string `json:"ref"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type analyticsDTO struct {
	SubscriptionClicks   int64         `json:"subscription_clicks"`
	SubscriptionClicksAt string        `json:"subscription_clicks_updated_at,omitempty"`
	SubscriptionAttempts int64         `json:"subscription_attempts"`
	RecentFeedback       []feedbackDTO `json:"recent_feedback"`
}

type feedbackDTO struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	UserID      string `json:"userId"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func matchToDTO(m match.Match) matchDTO {
	return matchDTO{
		ID:              m.ID,
		HomeTeam:        m.HomeTeam,
		HomeTeamID:      m.HomeTeamID,
		AwayTeam:        m.AwayTeam,
		AwayTeamID:      m.AwayTeamID,
		HomeLogo:        m.HomeLogo,
		AwayLogo:        m.AwayLogo,
		HomeScore:       m.HomeScore,
		AwayScore:       m.AwayScore,
		Status:          m.Status.String(),
		Date:            m.Date,
		Time:            m.Time,
		Venue:           m.Venue,
		CompetitionID:   m.CompetitionID,
		CompetitionName: m.CompetitionName,
		APIMatchID:      m.APIMatchID,
		MatchDate:       formatTime(m.MatchDate),
		Lineups:         nonNilRows(m.Lineups),
		Events:          nonNilRows(m.Events),
		IsMatchOfTheDay: m.IsMatchOfTheDay,
		CreatedAt:       formatTime(m.CreatedAt),
		UpdatedAt:       formatTime(m.UpdatedAt),
	}
}

func matchesToDTO(items []match.Match) []matchDTO {
	out := make([]matchDTO, 0, len(items))
	for _, item := range items {
		out = append(out, matchToDTO(item))
	}
	return out
}

func matchWriteToDTO(result usecase.MatchWriteResult) matchWriteDTO {
	return matchWriteDTO{
		Match:       matchToDTO(result.Match),
		Live:        result.Live,
		RoomCreated: result.RoomCreated,
		Retracted:   result.Retracted,
	}
}

func matchDetailsToDTO(d usecase.MatchDetails) matchDetailsDTO {
	out := matchDetailsDTO{
		Match:    matchToDTO(d.Match),
		Warning:  d.Warning,
		Presence: presenceToDTO(d.Presence),
	}
	if d.Live != nil {
		out.Live = &liveFixtureDTO{
			StatusShort: d.Live.StatusShort,
			StatusLong:  d.Live.StatusLong,
			Lifecycle:   d.Live.Lifecycle.String(),
			Elapsed:     d.Live.Elapsed,
			HomeGoals:   d.Live.HomeGoals,
			AwayGoals:   d.Live.AwayGoals,
			Lineups:     nonNilRows(d.Live.Lineups),
			Events:      nonNilRows(d.Live.Events),
		}
	}
	return out
}

func presenceToDTO(items []banter.Presence) []presenceDTO {
	out := make([]presenceDTO, 0, len(items))
	for _, item := range items {
		out = append(out, presenceDTO{UserID: item.UserID, DisplayName: item.DisplayName, LastActive: formatTime(item.LastActive)})
	}
	return out
}

func fixtureSummaryToDTO(s usecase.FixtureSummary) fixtureSummaryDTO {
	fx := s.Fixture
	return fixtureSummaryDTO{
		ID:              fx.ID,
		KickoffAt:       formatTime(fx.KickoffAt),
		StatusShort:     fx.StatusShort,
		StatusLong:      fx.StatusLong,
		Venue:           fx.Venue,
		CompetitionID:   fx.CompetitionID,
		CompetitionName: fx.CompetitionName,
		Round:           fx.Round,
		HomeTeamID:      fx.HomeTeamID,
		HomeTeam:        fx.HomeTeam,
		HomeLogo:        fx.HomeLogo,
		AwayTeamID:      fx.AwayTeamID,
		AwayTeam:        fx.AwayTeam,
		AwayLogo:        fx.AwayLogo,
		HomeGoals:       fx.HomeGoals,
		AwayGoals:       fx.AwayGoals,
		Lifecycle:       s.Lifecycle.String(),
		Imported:        s.Imported,
	}
}

func teamToDTO(t team.Team) teamDTO {
	return teamDTO{
		ID:            t.ID,
		Name:          t.Name,
		Code:          t.Code,
		Country:       t.Country,
		Founded:       t.Founded,
		National:      t.National,
		Logo:          t.Logo,
		VenueName:     t.Venue.Name,
		VenueCity:     t.Venue.City,
		VenueCapacity: t.Venue.Capacity,
		Season:        t.Season,
	}
}

func competitionToDTO(c competition.Competition) competitionDTO {
	return competitionDTO{
		ID:          c.ID,
		Name:        c.Name,
		Type:        c.Type,
		Logo:        c.Logo,
		CountryName: c.CountryName,
		CountryCode: c.CountryCode,
		CountryFlag: c.CountryFlag,
		SeasonYear:  c.SeasonYear,
	}
}

func userToDTO(u user.User) userDTO {
	return userDTO{
		ID:               u.ID,
		Username:         u.Username,
		DisplayName:      u.DisplayName,
		Email:            u.Email,
		AvatarURL:        u.AvatarURL,
		FavoriteTeam:     u.FavoriteTeam,
		FavoriteTeamLogo: u.FavoriteTeamLogo,
		Points:           u.Points,
		Rank:             u.Rank,
		Status:           string(u.Status),
		CreatedAt:        formatTime(u.CreatedAt),
	}
}

func moderationEventToDTO(e ledger.ModerationEvent) moderationEventDTO {
	return moderationEventDTO{
		ID:         e.ID,
		Actor:      e.Actor,
		FromStatus: e.FromStatus,
		ToStatus:   e.ToStatus,
		Reason:     e.Reason,
		OccurredAt: formatTime(e.OccurredAt),
	}
}

func syncRunToDTO(run ledger.SyncRun) syncRunDTO {
	items := make([]syncItemDTO, 0, len(run.Items))
	for _, item := range run.Items {
		items = append(items, syncItemDTO{Ref: item.Ref, Status: string(item.Status), Message: item.Message})
	}
	return syncRunDTO{
		ID:         run.ID,
		Kind:       string(run.Kind),
		Trigger:    run.Trigger,
		StartedAt:  formatTime(run.StartedAt),
		FinishedAt: formatTime(run.FinishedAt),
		Total:      run.Total,
		Succeeded:  run.Succeeded,
		Failed:     run.Failed,
		Items:      items,
	}
}

func analyticsToDTO(s usecase.AnalyticsSummary) analyticsDTO {
	feedback := make([]feedbackDTO, 0, len(s.RecentFeedback))
	for _, f := range s.RecentFeedback {
		feedback = append(feedback, feedbackToDTO(f))
	}
	return analyticsDTO{
		SubscriptionClicks:   s.SubscriptionClicks,
		SubscriptionClicksAt: formatTime(s.SubscriptionClicksAt),
		SubscriptionAttempts: s.SubscriptionAttempts,
		RecentFeedback:       feedback,
	}
}

func feedbackToDTO(f analytics.Feedback) feedbackDTO {
	return feedbackDTO{ID: f.ID, Type: f.Type, Description: f.Description, UserID: f.UserID, CreatedAt: formatTime(f.CreatedAt)}
}

func nonNilRows(rows []map[string]any) []map[string]any {
	if rows == nil {
		return []map[string]any{}
	}
	return rows
}
