package build

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/bitacora/internal/content"
	ferrors "git.home.luguber.info/inful/bitacora/internal/foundation/errors"
	"git.home.luguber.info/inful/bitacora/internal/logfields"
	"git.home.luguber.info/inful/bitacora/internal/observability"
	"git.home.luguber.info/inful/bitacora/internal/site"
	"git.home.luguber.info/inful/bitacora/internal/transform"
)

func stagePrepareOutput(ctx context.Context, st *State) error {
	if err := ClearOutput(st.Options.OutputDir, st.Site.MediaDir()); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "prepare output directory").
			WithContext("output_dir", st.Options.OutputDir).Fatal().Build()
	}
	n, err := CopyStatic(st.templates, st.Options.StaticDirs, st.Options.OutputDir)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "copy static assets").
			WithContext("template_dir", st.Options.TemplateDir).Fatal().Build()
	}
	observability.DebugContext(ctx, "Copied static assets", logfields.Count(n))
	return nil
}

func stageFetch(ctx context.Context, st *State) error {
	if st.source == nil {
		return ferrors.InternalError("no data source configured").Fatal().Build()
	}
	ds, err := st.source.FetchAll(ctx)
	if err != nil {
		return err
	}
	st.Dataset = ds
	st.Report.Counts.Feeds = len(ds.Feeds)
	st.Report.Counts.Media = len(ds.Media)
	return nil
}

func stageCollectMedia(ctx context.Context, st *State) error {
	if st.Dataset == nil {
		return ferrors.InternalError("collect media before fetch").Fatal().Build()
	}
	available := transform.CollectMedia(ctx, st.Dataset.Media, st.media)
	st.Report.Counts.MediaAvailable = available
	if missing := len(st.Dataset.Media) - available; missing > 0 {
		return ferrors.MediaError(fmt.Sprintf("%d of %d media files unavailable", missing, len(st.Dataset.Media))).Build()
	}
	return nil
}

func stageTransform(ctx context.Context, st *State) error {
	ds := st.Dataset
	if ds == nil {
		return ferrors.InternalError("transform before fetch").Fatal().Build()
	}
	comments := transform.Approved(ds.Comments)
	blogs := transform.Published(ds.Blogs)
	if err := content.ValidateAll(blogs); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryValidation, "invalid published post").
			WithContext("service", "Blogs").Fatal().Build()
	}
	logs := transform.Logs(ctx, ds.Logs, st.media)

	st.Input = site.Input{
		Socials:   ds.Socials,
		About:     ds.About,
		Redirects: ds.Redirects,
		Feeds:     ds.Feeds,
		Comments:  comments,
		Logs:      logs,
		Blogs:     blogs,
	}
	st.Report.Counts.Blogs = len(blogs)
	st.Report.Counts.Logs = len(logs)
	st.Report.Counts.Comments = len(comments)

	missing := 0
	for _, l := range logs {
		if l.IsPhoto() && l.ImageURL == "" {
			missing++
		}
	}
	observability.DebugContext(ctx, "Transformed content",
		slog.Int("blogs", len(blogs)),
		slog.Int("logs", len(logs)),
		slog.Int("comments", len(comments)))
	if missing > 0 {
		return ferrors.MediaError(fmt.Sprintf("%d photo logs render without an image", missing)).Build()
	}
	return nil
}

func stageRender(ctx context.Context, st *State) error {
	engine := site.NewEngine(st.templates)
	if err := engine.Check(site.RequiredTemplates...); err != nil {
		return err
	}
	r := site.NewRenderer(st.Site, engine, st.out,
		site.WithRedirectSink(st.redirects),
		site.WithRecorder(st.recorder))
	err := r.All(ctx, st.Input)
	st.Report.Artifacts = r.Artifacts()
	return err
}
