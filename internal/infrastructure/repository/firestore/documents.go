package firestore

import (
	"time"

	"github.com/riskibarqy/diskichat-admin/internal/domain/analytics"
	"github.com/riskibarqy/diskichat-admin/internal/domain/banter"
	"github.com/riskibarqy/diskichat-admin/internal/domain/competition"
	"github.com/riskibarqy/diskichat-admin/internal/domain/match"
	"github.com/riskibarqy/diskichat-admin/internal/domain/team"
	"github.com/riskibarqy/diskichat-admin/internal/domain/user"
)

type matchDoc struct {
	HomeTeam        string           `firestore:"homeTeam"`
	HomeTeamID      int64            `firestore:"homeTeamId"`
	AwayTeam        string           `firestore:"awayTeam"`
	AwayTeamID      int64            `firestore:"awayTeamId"`
	HomeLogo        string           `firestore:"homeLogo"`
	AwayLogo        string           `firestore:"awayLogo"`
	HomeScore       int              `firestore:"homeScore"`
	AwayScore       int              `firestore:"awayScore"`
	Status          string           `firestore:"status"`
	Date            string           `firestore:"date"`
	Time            string           `firestore:"time"`
	Venue           string           `firestore:"venue"`
	CompetitionID   int64            `firestore:"competitionId"`
	CompetitionName string           `firestore:"competitionName"`
	APIMatchID      int64            `firestore:"apiMatchId"`
	MatchDate       time.Time        `firestore:"matchDate"`
	Lineups         []map[string]any `firestore:"lineups"`
	Events          []map[string]any `firestore:"events"`
	IsMatchOfTheDay bool             `firestore:"isMatchOfTheDay"`
	CreatedAt       time.Time        `firestore:"createdAt"`
	UpdatedAt       time.Time        `firestore:"updatedAt"`
}

func (d matchDoc) toDomain(id string) match.Match {
	return match.Match{
		ID:              id,
		HomeTeam:        d.HomeTeam,
		HomeTeamID:      d.HomeTeamID,
		AwayTeam:        d.AwayTeam,
		AwayTeamID:      d.AwayTeamID,
		HomeLogo:        d.HomeLogo,
		AwayLogo:        d.AwayLogo,
		HomeScore:       d.HomeScore,
		AwayScore:       d.AwayScore,
		Status:          match.ReadLifecycle(d.Status),
		Date:            d.Date,
		Time:            d.Time,
		Venue:           d.Venue,
		CompetitionID:   d.CompetitionID,
		CompetitionName: d.CompetitionName,
		APIMatchID:      d.APIMatchID,
		MatchDate:       d.MatchDate,
		Lineups:         nonNil(d.Lineups),
		Events:          nonNil(d.Events),
		IsMatchOfTheDay: d.IsMatchOfTheDay,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// matchFields is the merge payload for a match write. createdAt and
// isMatchOfTheDay are only part of it when the document is new; afterwards
// they belong to the first write and to SetMatchOfTheDay.
func matchFields(m match.Match, isNew bool) map[string]any {
	fields := map[string]any{
		"homeTeam":        m.HomeTeam,
		"awayTeam":        m.AwayTeam,
		"homeLogo":        m.HomeLogo,
		"awayLogo":        m.AwayLogo,
		"homeScore":       m.HomeScore,
		"awayScore":       m.AwayScore,
		"status":          m.Status.String(),
		"date":            m.Date,
		"time":            m.Time,
		"venue":           m.Venue,
		"competitionName": m.CompetitionName,
		"matchDate":       m.MatchDate,
		"lineups":         nonNil(m.Lineups),
		"events":          nonNil(m.Events),
		"updatedAt":       m.UpdatedAt,
	}
	if m.HomeTeamID > 0 {
		fields["homeTeamId"] = m.HomeTeamID
	}
	if m.AwayTeamID > 0 {
		fields["awayTeamId"] = m.AwayTeamID
	}
	if m.CompetitionID > 0 {
		fields["competitionId"] = m.CompetitionID
	}
	if m.APIMatchID > 0 {
		fields["apiMatchId"] = m.APIMatchID
	}
	if isNew {
		fields["createdAt"] = m.CreatedAt
		fields["isMatchOfTheDay"] = m.IsMatchOfTheDay
	}
	return fields
}

// liveMatchFields is the full live_matches document: the stored match plus its
// id. Callers pass the match as read back from matches, so createdAt and
// isMatchOfTheDay mirror the source document.
func liveMatchFields(m match.Match) map[string]any {
	fields := matchFields(m, true)
	fields["id"] = m.ID
	return fields
}

func nonNil(rows []map[string]any) []map[string]any {
	if rows == nil {
		return []map[string]any{}
	}
	return rows
}

type presenceDoc struct {
	UserID      string    `firestore:"userId"`
	DisplayName string    `firestore:"displayName"`
	LastActive  time.Time `firestore:"lastActive"`
}

func (d presenceDoc) toDomain(docID string) banter.Presence {
	userID := d.UserID
	if userID == "" {
		userID = docID
	}
	return banter.Presence{UserID: userID, DisplayName: d.DisplayName, LastActive: d.LastActive}
}

type teamDoc struct {
	ID            int64     `firestore:"id"`
	Name          string    `firestore:"name"`
	Code          string    `firestore:"code"`
	Country       string    `firestore:"country"`
	Founded       int       `firestore:"founded"`
	National      bool      `firestore:"national"`
	Logo          string    `firestore:"logo"`
	VenueID       int64     `firestore:"venue_id"`
	VenueName     string    `firestore:"venue_name"`
	VenueAddress  string    `firestore:"venue_address"`
	VenueCity     string    `firestore:"venue_city"`
	VenueCapacity int       `firestore:"venue_capacity"`
	VenueSurface  string    `firestore:"venue_surface"`
	VenueImage    string    `firestore:"venue_image"`
	Season        int       `firestore:"season"`
	UpdatedAt     time.Time `firestore:"updatedAt"`
}

func teamToDoc(t team.Team) teamDoc {
	return teamDoc{
		ID:            t.ID,
		Name:          t.Name,
		Code:          t.Code,
		Country:       t.Country,
		Founded:       t.Founded,
		National:      t.National,
		Logo:          t.Logo,
		VenueID:       t.Venue.ID,
		VenueName:     t.Venue.Name,
		VenueAddress:  t.Venue.Address,
		VenueCity:     t.Venue.City,
		VenueCapacity: t.Venue.Capacity,
		VenueSurface:  t.Venue.Surface,
		VenueImage:    t.Venue.Image,
		Season:        t.Season,
		UpdatedAt:     t.UpdatedAt,
	}
}

func (d teamDoc) toDomain() team.Team {
	return team.Team{
		ID:       d.ID,
		Name:     d.Name,
		Code:     d.Code,
		Country:  d.Country,
		Founded:  d.Founded,
		National: d.National,
		Logo:     d.Logo,
		Venue: team.Venue{
			ID:       d.VenueID,
			Name:     d.VenueName,
			Address:  d.VenueAddress,
			City:     d.VenueCity,
			Capacity: d.VenueCapacity,
			Surface:  d.VenueSurface,
			Image:    d.VenueImage,
		},
		Season:    d.Season,
		UpdatedAt: d.UpdatedAt,
	}
}

type competitionDoc struct {
	ID          int64     `firestore:"id"`
	Name        string    `firestore:"name"`
	Type        string    `firestore:"type"`
	Logo        string    `firestore:"logo"`
	CountryName string    `firestore:"country_name"`
	CountryCode string    `firestore:"country_code"`
	CountryFlag string    `firestore:"country_flag"`
	SeasonYear  int       `firestore:"season_year"`
	UpdatedAt   time.Time `firestore:"updatedAt"`
}

func competitionToDoc(c competition.Competition) competitionDoc {
	return competitionDoc{
		ID:          c.ID,
		Name:        c.Name,
		Type:        c.Type,
		Logo:        c.Logo,
		CountryName: c.CountryName,
		CountryCode: c.CountryCode,
		CountryFlag: c.CountryFlag,
		SeasonYear:  c.SeasonYear,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (d competitionDoc) toDomain() competition.Competition {
	return competition.Competition(d)
}

type userDoc struct {
	Username         string    `firestore:"username"`
	DisplayName      string    `firestore:"displayName"`
	Email            string    `firestore:"email"`
	AvatarURL        string    `firestore:"avatarUrl"`
	FavoriteTeam     string    `firestore:"favoriteTeam"`
	FavoriteTeamLogo string    `firestore:"favoriteTeamLogo"`
	Points           int       `firestore:"points"`
	Rank             int       `firestore:"rank"`
	Status           string    `firestore:"status"`
	CreatedAt        time.Time `firestore:"createdAt"`
}

func (d userDoc) toDomain(id string) user.User {
	return user.User{
		ID:               id,
		Username:         d.Username,
		DisplayName:      d.DisplayName,
		Email:            d.Email,
		AvatarURL:        d.AvatarURL,
		FavoriteTeam:     d.FavoriteTeam,
		FavoriteTeamLogo: d.FavoriteTeamLogo,
		Points:           d.Points,
		Rank:             d.Rank,
		Status:           user.NormalizeStoredStatus(d.Status),
		CreatedAt:        d.CreatedAt,
	}
}

type clicksDoc struct {
	Count     int64     `firestore:"count"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

type feedbackDoc struct {
	Type        string    `firestore:"type"`
	Description string    `firestore:"description"`
	UserID      string    `firestore:"userId"`
	CreatedAt   time.Time `firestore:"createdAt"`
}

func (d feedbackDoc) toDomain(id string) analytics.Feedback {
	return analytics.Feedback{ID: id, Type: d.Type, Description: d.Description, UserID: d.UserID, CreatedAt: d.CreatedAt}
}

// storedStatuses lists every status value a lifecycle may be stored under,
// including the capitalised labels older manual documents carry.
func storedStatuses(lc match.Lifecycle) []string {
	switch lc {
	case match.LifecycleUpcoming:
		return []string{"upcoming", "Scheduled", "scheduled", "Upcoming"}
	case match.LifecycleLive:
		return []string{"live", "Live"}
	case match.LifecycleFinished:
		return []string{"finished", "Finished"}
	default:
		return []string{lc.String()}
	}
}
