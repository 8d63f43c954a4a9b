/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mikeb26/trugo-td/announce"
	"github.com/mikeb26/trugo-td/internal"
	"github.com/mikeb26/trugo-td/roster"
	"github.com/mikeb26/trugo-td/s3store"
	"github.com/mikeb26/trugo-td/store"
	"github.com/mikeb26/trugo-td/swiss"
)

// docFlags are the flags every command uses to locate its tournament.
type docFlags struct {
	file     *string
	name     *string
	byeScore *string
}

func newFlagSet(env *cmdEnv, name string) (*flag.FlagSet, *docFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(env.errOut)
	df := &docFlags{
		file: fs.String("file", "", "Tournament document (local path or s3://bucket/key)"),
		name: fs.String("name", swiss.DefaultName, "Tournament name"),
		byeScore: fs.String("bye-score", "",
			"Bye score policy: optional, required or ignored"),
	}
	return fs, df
}

// document is a tournament together with where it is saved.
type document struct {
	tourney *swiss.Tournament
	store   swiss.Store
	key     string
}

func (d *document) save(ctx context.Context) error {
	return d.tourney.Save(ctx, d.store, d.key)
}

// openStore resolves the --file flag into a store and document key. Local
// documents are mirrored to TRUGO_S3_BUCKET when it is set.
func openStore(ctx context.Context, cfg *internal.Config, file string,
	name string) (swiss.Store, string, error) {

	bucket, key, isS3, err := s3store.ParseURI(file)
	if err != nil {
		return nil, "", err
	}
	if isS3 {
		b := s3store.New(bucket, "", false, true)
		if err := b.Init(ctx); err != nil {
			return nil, "", err
		}
		return b, key, nil
	}

	dir := cfg.StateDir
	key = swiss.FileName(name)
	if file != "" {
		dir = filepath.Dir(file)
		key = filepath.Base(file)
	}
	var st swiss.Store = store.NewDir(dir)
	if cfg.S3Bucket != "" {
		b := s3store.New(cfg.S3Bucket, cfg.S3Prefix, false, true)
		if err := b.Init(ctx); err != nil {
			return nil, "", fmt.Errorf("unable to mirror to %v: %w", cfg.S3Bucket,
				err)
		}
		st = store.NewMirror(st, b)
	}
	return st, key, nil
}

// openDocument loads the tournament named by df. When create is set a
// missing document yields a new, empty tournament.
func openDocument(ctx context.Context, env *cmdEnv, df *docFlags,
	create bool) (*document, error) {

	if err := swiss.ValidateName(*df.name); err != nil {
		return nil, err
	}
	st, key, err := openStore(ctx, env.cfg, *df.file, *df.name)
	if err != nil {
		return nil, err
	}

	tourney := swiss.New(*df.name)
	if err := tourney.Load(ctx, st, key); err != nil {
		if !create || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		log.Printf("trugotd: creating new tournament %q in %v", *df.name, key)
	}

	policy, err := env.cfg.ByeScorePolicy()
	if err != nil {
		return nil, err
	}
	if *df.byeScore != "" {
		if policy, err = swiss.ParseByeScorePolicy(*df.byeScore); err != nil {
			return nil, err
		}
	}
	tourney.SetByeScorePolicy(policy)
	tourney.SetAutoSave(st, key)

	return &document{tourney: tourney, store: st, key: key}, nil
}

// parseScoreArgs turns ID=PTS arguments into a score sheet. The points are
// kept as text for the ledger to validate.
func parseScoreArgs(args []string) (swiss.ScoreSheet, error) {
	sheet := make(swiss.ScoreSheet, len(args))
	for _, arg := range args {
		id, pts, ok := strings.Cut(arg, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("expected ID=PTS but found %q", arg)
		}
		if _, dup := sheet[id]; dup {
			return nil, fmt.Errorf("team %v listed twice", id)
		}
		sheet[id] = pts
	}
	return sheet, nil
}

func handleAdd(ctx context.Context, env *cmdEnv, args []string) error {
	fs, df := newFlagSet(env, "add")
	id := fs.String("id", "", "Team ID (an integer)")
	name := fs.String("team", "", "Team name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" || *name == "" {
		fs.Usage()
		return fmt.Errorf("please provide --id and --team")
	}

	doc, err := openDocument(ctx, env, df, true)
	if err != nil {
		return err
	}
	team, err := doc.tourney.RegisterTeam(*id, *name)
	if err != nil {
		return err
	}
	if err := doc.save(ctx); err != nil {
		return err
	}
	fmt.Fprintf(env.out, "Registered %v (ID: %v)\n", team.Name, team.ID)

	return nil
}

func handleRemove(ctx context.Context, env *cmdEnv, args []string) error {
	fs, df := newFlagSet(env, "remove")
	id := fs.String("id", "", "Team ID to remove")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		fs.Usage()
		return fmt.Errorf("please provide --id")
	}

	doc, err := openDocument(ctx, env, df, false)
	if err != nil {
		return err
	}
	if err := doc.tourney.RemoveTeam(*id); err != nil {
		return err
	}
	if err := doc.save(ctx); err != nil {
		return err
	}
	fmt.Fprintf(env.out, "Removed team %v\n", *id)

	return nil
}

func handleImport(ctx context.Context, env *cmdEnv, args []string) error {
	fs, df := newFlagSet(env, "import")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("please provide at least one roster file or URL")
	}

	doc, err := openDocument(ctx, env, df, true)
	if err != nil {
		return err
	}
	client := internal.NewCachedHttpClient(ctx, env.cfg.CacheBucket,
		env.cfg.CacheMaxAge)
	specs, err := roster.NewFetcher(client).FetchAll(ctx, fs.Args()...)
	if err != nil {
		return err
	}
	if err := doc.tourney.RegisterTeams(specs); err != nil {
		return err
	}
	if err := doc.save(ctx); err != nil {
		return err
	}
	fmt.Fprintf(env.out, "Registered %v teams\n", len(specs))

	return nil
}

// pairNextRound generates the next round, prints and announces it. The
// pairings are printed even when auto-save fails.
func pairNextRound(ctx context.Context, env *cmdEnv, doc *document) error {
	matches, err := doc.tourney.GenerateNextRound(ctx)
	if matches == nil {
		return err
	}
	output := swiss.BuildPairingsOutput(doc.tourney)
	fmt.Fprint(env.out, output)
	if err != nil {
		return err
	}
	announce.BestEffort(ctx, env.announcer, output)

	return nil
}

func handleNext(ctx context.Context, env *cmdEnv, args []string) error {
	fs, df := newFlagSet(env, "next")
	if err := fs.Parse(args); err != nil {
		return err
	}

	doc, err := openDocument(ctx, env, df, false)
	if err != nil {
		return err
	}
	return pairNextRound(ctx, env, doc)
}

func handleScores(ctx context.Context, env *cmdEnv, args []string) error {
	fs, df := newFlagSet(env, "scores")
	final := fs.Bool("final", false,
		"Record the scores without pairing another round")
	if err := fs.Parse(args); err != nil {
		return err
	}
	sheet, err := parseScoreArgs(fs.Args())
	if err != nil {
		return err
	}

	doc, err := openDocument(ctx, env, df, false)
	if err != nil {
		return err
	}
	if err := doc.tourney.ApplyRoundScores(sheet); err != nil {
		return err
	}
	if *final {
		if err := doc.save(ctx); err != nil {
			return err
		}
		fmt.Fprint(env.out, swiss.BuildStandingsOutput(doc.tourney))
		return nil
	}
	return pairNextRound(ctx, env, doc)
}

func handleCorrect(ctx context.Context, env *cmdEnv, args []string) error {
	fs, df := newFlagSet(env, "correct")
	if err := fs.Parse(args); err != nil {
		return err
	}
	sheet, err := parseScoreArgs(fs.Args())
	if err != nil {
		return err
	}
	if len(sheet) == 0 {
		fs.Usage()
		return fmt.Errorf("please provide at least one ID=PTS correction")
	}

	doc, err := openDocument(ctx, env, df, false)
	if err != nil {
		return err
	}
	if err := doc.tourney.CorrectTotals(ctx, sheet); err != nil {
		return err
	}
	fmt.Fprint(env.out, swiss.BuildStandingsOutput(doc.tourney))

	return nil
}

func handleStandings(ctx context.Context, env *cmdEnv, args []string) error {
	fs, df := newFlagSet(env, "standings")
	if err := fs.Parse(args); err != nil {
		return err
	}

	doc, err := openDocument(ctx, env, df, false)
	if err != nil {
		return err
	}
	fmt.Fprint(env.out, swiss.BuildStandingsOutput(doc.tourney))

	return nil
}

func handlePairings(ctx context.Context, env *cmdEnv, args []string) error {
	fs, df := newFlagSet(env, "pairings")
	if err := fs.Parse(args); err != nil {
		return err
	}

	doc, err := openDocument(ctx, env, df, false)
	if err != nil {
		return err
	}
	fmt.Fprint(env.out, swiss.BuildPairingsOutput(doc.tourney))

	return nil
}

func handleDelete(ctx context.Context, env *cmdEnv, args []string) error {
	fs, df := newFlagSet(env, "delete")
	yes := fs.Bool("yes", false, "Confirm deleting the tournament document")
	if err := fs.Parse(args); err != nil {
		return err
	}

	doc, err := openDocument(ctx, env, df, false)
	if err != nil {
		return err
	}
	if !*yes {
		return fmt.Errorf("refusing to delete %v without --yes", doc.key)
	}
	deleter, ok := doc.store.(store.Deleter)
	if !ok {
		return fmt.Errorf("unable to delete %v from this store", doc.key)
	}
	if err := deleter.Delete(ctx, doc.key); err != nil {
		return err
	}
	fmt.Fprintf(env.out, "Deleted %v (%v, round %v)\n", doc.key,
		doc.tourney.Name(), doc.tourney.Round())

	return nil
}
