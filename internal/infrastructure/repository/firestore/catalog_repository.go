package firestore

import (
	"context"
	"fmt"
	"strconv"

	gfs "cloud.google.com/go/firestore"
	"github.com/riskibarqy/diskichat-admin/internal/domain/competition"
	"github.com/riskibarqy/diskichat-admin/internal/domain/team"
)

type TeamRepository struct {
	client *gfs.Client
}

func NewTeamRepository(client *gfs.Client) *TeamRepository {
	return &TeamRepository{client: client}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	docs, err := r.client.Collection(collectionTeams).OrderBy("name", gfs.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query teams: %w", err)
	}

	out := make([]team.Team, 0, len(docs))
	for _, snap := range docs {
		var doc teamDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode team id=%s: %w", snap.Ref.ID, err)
		}
		out = append(out, doc.toDomain())
	}
	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (team.Team, bool, error) {
	snap, err := r.client.Collection(collectionTeams).Doc(strconv.FormatInt(id, 10)).Get(ctx)
	if isNotFound(err) {
		return team.Team{}, false, nil
	}
	if err != nil {
		return team.Team{}, false, fmt.Errorf("get team id=%d: %w", id, err)
	}

	var doc teamDoc
	if err := snap.DataTo(&doc); err != nil {
		return team.Team{}, false, fmt.Errorf("decode team id=%d: %w", id, err)
	}
	return doc.toDomain(), true, nil
}

// UpsertMany merges every team through a BulkWriter; the first failed write is returned.
func (r *TeamRepository) UpsertMany(ctx context.Context, items []team.Team) error {
	if len(items) == 0 {
		return nil
	}

	writer := r.client.BulkWriter(ctx)
	jobs := make([]*gfs.BulkWriterJob, 0, len(items))
	for _, item := range items {
		ref := r.client.Collection(collectionTeams).Doc(strconv.FormatInt(item.ID, 10))
		job, err := writer.Set(ref, teamToDoc(item), gfs.MergeAll)
		if err != nil {
			writer.End()
			return fmt.Errorf("queue team id=%d: %w", item.ID, err)
		}
		jobs = append(jobs, job)
	}
	writer.End()

	for idx, job := range jobs {
		if _, err := job.Results(); err != nil {
			return fmt.Errorf("write team id=%d: %w", items[idx].ID, err)
		}
	}
	return nil
}

type CompetitionRepository struct {
	client *gfs.Client
}

func NewCompetitionRepository(client *gfs.Client) *CompetitionRepository {
	return &CompetitionRepository{client: client}
}

func (r *CompetitionRepository) List(ctx context.Context) ([]competition.Competition, error) {
	docs, err := r.client.Collection(collectionCompetitions).OrderBy("name", gfs.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query competitions: %w", err)
	}

	out := make([]competition.Competition, 0, len(docs))
	for _, snap := range docs {
		var doc competitionDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode competition id=%s: %w", snap.Ref.ID, err)
		}
		out = append(out, doc.toDomain())
	}
	return out, nil
}

func (r *CompetitionRepository) Upsert(ctx context.Context, c competition.Competition) error {
	ref := r.client.Collection(collectionCompetitions).Doc(strconv.FormatInt(c.ID, 10))
	if _, err := ref.Set(ctx, competitionToDoc(c), gfs.MergeAll); err != nil {
		return fmt.Errorf("set competition id=%d: %w", c.ID, err)
	}
	return nil
}
