// Package pipeline runs the batch stages. Every stage regenerates one
// snapshot from scratch and is empty-safe: no data is a normal outcome that
// still writes the snapshot header.
package pipeline

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/cascade"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/client"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/metrics"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/normalize"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/projection"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/providers"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/reference"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/snapshot"
)

// Stage names
const (
	StagePlayers     = "players"
	StagePlayerStats = "player-stats"
	StageTeams       = "teams"
	StageGoalies     = "goalies"
	StageInjuries    = "injuries"
	StageRinks       = "rinks"
	StageProjections = "projections"
)

// Stages lists every stage in run order
var Stages = []string{
	StagePlayers,
	StagePlayerStats,
	StageTeams,
	StageGoalies,
	StageInjuries,
	StageRinks,
	StageProjections,
}

// ErrUnknownStage is returned by Run for a name not in Stages
var ErrUnknownStage = errors.New("unknown stage")

// Paths are the candidate input files per reference dataset
type Paths struct {
	Rinks           []string
	Goalies         []string
	Injuries        []string
	BaseProjections []string
	Players         []string
}

// Pipeline holds everything a run shares between stages
type Pipeline struct {
	source   *providers.Source
	norm     *normalize.Normalizer
	composer *projection.Composer
	writer   *snapshot.Writer
	netlog   *client.NetLog
	paths    Paths
}

// New creates a pipeline. netlog may be nil.
func New(source *providers.Source, norm *normalize.Normalizer, writer *snapshot.Writer, netlog *client.NetLog, paths Paths) *Pipeline {
	if norm == nil {
		norm = normalize.New(nil)
	}
	return &Pipeline{
		source:   source,
		norm:     norm,
		composer: projection.NewComposer(norm),
		writer:   writer,
		netlog:   netlog,
		paths:    paths,
	}
}

// Run executes one stage by name
func (p *Pipeline) Run(ctx context.Context, stage string) error {
	var fn func(ctx context.Context) (int, error)
	switch stage {
	case StagePlayers:
		fn = p.players
	case StagePlayerStats:
		fn = p.playerStats
	case StageTeams:
		fn = p.teams
	case StageGoalies:
		fn = p.goalies
	case StageInjuries:
		fn = p.injuries
	case StageRinks:
		fn = p.rinks
	case StageProjections:
		fn = p.projections
	default:
		return errors.Wrapf(ErrUnknownStage, "%q", stage)
	}

	log.Info().Str("stage", stage).Msg("Stage starting")
	start := time.Now()

	rows, err := fn(ctx)
	elapsed := time.Since(start)
	if err != nil {
		metrics.RecordStage(stage, "error", elapsed.Seconds())
		metrics.RecordError("stage", stage)
		log.Error().Err(err).Str("stage", stage).Msg("Stage failed")
		return errors.Wrapf(err, "stage %s", stage)
	}

	metrics.RecordStage(stage, "success", elapsed.Seconds())
	log.Info().
		Str("stage", stage).
		Int("rows", rows).
		Dur("duration", elapsed).
		Msg("Stage complete")
	return nil
}

// RunAll executes every stage in order and stops at the first failure.
// Later stages read the snapshots earlier ones wrote.
func (p *Pipeline) RunAll(ctx context.Context) error {
	for _, stage := range Stages {
		if err := p.Run(ctx, stage); err != nil {
			return err
		}
	}
	metrics.RecordRunComplete()
	return nil
}

func (p *Pipeline) players(ctx context.Context) (int, error) {
	res := resolve(ctx, p, "players",
		p.source.StatsAPIRosters(),
		p.source.APIWebRosters(),
		p.source.ESPNRosters(),
	)
	return snapshot.Save(ctx, p.writer, snapshot.Players, res.Rows)
}

func (p *Pipeline) playerStats(ctx context.Context) (int, error) {
	t, path := reference.Load(p.paths.Players)
	players := p.norm.PlayerRows(t)
	if len(players) == 0 {
		log.Warn().Strs("candidates", p.paths.Players).Msg("No players available for per-player stats")
	} else {
		log.Info().Str("path", path).Int("players", len(players)).Msg("Players loaded")
	}

	res := resolve(ctx, p, "player_stats",
		p.source.PerPlayerStats(players),
		p.source.SkaterSummary(),
	)
	return snapshot.Save(ctx, p.writer, snapshot.PlayerStats, res.Rows)
}

func (p *Pipeline) teams(ctx context.Context) (int, error) {
	res := resolve(ctx, p, "team_stats",
		p.source.StatsAPIStandings(),
		p.source.APIWebStandings(),
		p.source.ESPNStandings(),
	)
	return snapshot.Save(ctx, p.writer, snapshot.TeamStats, res.Rows)
}

func (p *Pipeline) goalies(ctx context.Context) (int, error) {
	res := resolve(ctx, p, "goalies",
		p.source.ReferenceGoalies(p.paths.Goalies),
		p.source.GoalieSummary(),
	)
	return snapshot.Save(ctx, p.writer, snapshot.Goalies, res.Rows)
}

func (p *Pipeline) injuries(ctx context.Context) (int, error) {
	res := resolve(ctx, p, "injuries",
		p.source.ReferenceInjuries(p.paths.Injuries),
		p.source.ESPNInjuries(),
	)
	return snapshot.Save(ctx, p.writer, snapshot.Injuries, res.Rows)
}

func (p *Pipeline) rinks(ctx context.Context) (int, error) {
	res := resolve(ctx, p, "rinks", p.source.ReferenceRinks(p.paths.Rinks))
	return snapshot.Save(ctx, p.writer, snapshot.Rinks, res.Rows)
}

// projections reads the base table plus the goalie, rink and injury
// snapshots from the output directory. Any of them may be missing.
func (p *Pipeline) projections(ctx context.Context) (int, error) {
	base, path := reference.Load(p.paths.BaseProjections)
	if base.Empty() {
		log.Warn().Strs("candidates", p.paths.BaseProjections).Msg("No base projections found, writing empty headers")
		p.netlog.Event(StageProjections, "no base projections found")
	} else {
		log.Info().Str("path", path).Int("rows", base.Len()).Msg("Base projections loaded")
	}

	in := projection.Inputs{
		Base:     base,
		Goalies:  p.loadSnapshot(snapshot.Goalies),
		Rinks:    p.loadSnapshot(snapshot.Rinks),
		Injuries: p.loadSnapshot(snapshot.Injuries),
	}

	rows, _ := p.composer.Compose(in)
	return snapshot.Save(ctx, p.writer, snapshot.Projections, rows)
}

func (p *Pipeline) loadSnapshot(target snapshot.Target) reference.Table {
	t, _ := reference.Load([]string{p.writer.Path(target)})
	return t
}

// resolve runs a cascade whose provider failures also land in the network log
func resolve[T any](ctx context.Context, p *Pipeline, entity string, provs ...cascade.Provider[T]) cascade.Result[T] {
	c := cascade.New[T](entity, provs...)
	c.OnFailure = func(provider string, err error) {
		p.netlog.Failure(entity+"/"+provider, err)
	}

	res := c.Resolve(ctx)
	if res.Exhausted {
		p.netlog.Event(entity, "all providers exhausted, writing empty snapshot")
	}
	return res
}
