package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/turbot/pipe-fittings/cmdconfig"
	"github.com/turbot/pipe-fittings/utils"
	"github.com/zclconf/go-cty/cty"

	"github.com/turbot/tailpipe-plugin-envi/artifact_mapper"
	"github.com/turbot/tailpipe-plugin-envi/artifact_source"
	"github.com/turbot/tailpipe-plugin-envi/artifact_source_config"
	"github.com/turbot/tailpipe-plugin-envi/collection"
	"github.com/turbot/tailpipe-plugin-envi/collection_state"
	"github.com/turbot/tailpipe-plugin-envi/config"
	"github.com/turbot/tailpipe-plugin-envi/config_data"
	"github.com/turbot/tailpipe-plugin-envi/constants"
	"github.com/turbot/tailpipe-plugin-envi/row_filter"
	"github.com/turbot/tailpipe-plugin-envi/types"
	"github.com/turbot/tailpipe-plugin-envi/writer"
)

// flag names
const (
	argConfig      = "config"
	argJobId       = "job-id"
	argPath        = "path"
	argFilter      = "filter"
	argRecursive   = "recursive"
	argOutput      = "output"
	argOutputPath  = "output-path"
	argParallelism = "parallelism"
	argStateFile   = "state-file"
)

type collectOptions struct {
	ConfigPath  string
	JobId       int64
	Paths       []string
	Filter      string
	Recursive   bool
	Output      string
	OutputPath  string
	Parallelism int
	StateFile   string
}

func collectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect [flags]",
		Short: "Collect the scenes of a job, or of local directories",
		Long: `Collect discovers scene rasters, decodes each raster and its ENVI header into a scene record,
and writes the records to the configured outputs.

Either pass a config file with --config, or describe the source with flags:
--path collects the scenes under local directories, otherwise the scenes of --job-id are looked up in the catalog.`,
		Args: cobra.NoArgs,
		Run:  runCollectCmd,
	}

	cmdconfig.OnCmd(cmd).
		AddStringFlag(argConfig, "", "Path to a collection config file").
		AddIntFlag(argJobId, int(constants.SampleJobId), "The job to collect the scenes of").
		AddStringSliceFlag(argPath, nil, "Directories to collect scenes from, instead of the catalog").
		AddStringFlag(argFilter, "", "Regular expression scene file names must match (default .*?\\.bsq)").
		AddBoolFlag(argRecursive, true, "Collect scenes in subdirectories of --path").
		AddStringFlag(argOutput, writer.LogWriterIdentifier, "The output: jsonl, parquet or log").
		AddStringFlag(argOutputPath, ".", "The directory jsonl and parquet files are written to").
		AddIntFlag(argParallelism, 0, "The number of scenes processed at once (default 1)").
		AddStringFlag(argStateFile, "", "File recording collected scenes, scenes already recorded are skipped")

	return cmd
}

func runCollectCmd(cmd *cobra.Command, _ []string) {
	utils.LogTime("cmd.collect start")
	defer utils.LogTime("cmd.collect end")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := collectOptions{
		ConfigPath:  viper.GetString(argConfig),
		JobId:       viper.GetInt64(argJobId),
		Paths:       viper.GetStringSlice(argPath),
		Filter:      viper.GetString(argFilter),
		Recursive:   viper.GetBool(argRecursive),
		Output:      viper.GetString(argOutput),
		OutputPath:  viper.GetString(argOutputPath),
		Parallelism: viper.GetInt(argParallelism),
		StateFile:   viper.GetString(argStateFile),
	}

	cfg, err := buildConfig(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitCode = 1
		return
	}

	res, err := runCollect(ctx, cfg)
	if res != nil {
		printResult(cmd, res)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitCode = 1
	}
}

// buildConfig returns the config file, overridden by flags, or a config built from flags if there is no file
func buildConfig(opts collectOptions) (*config.Config, error) {
	if opts.ConfigPath != "" {
		cfg, err := config.LoadFile(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		if opts.Parallelism > 0 {
			cfg.Collection.Parallelism = &opts.Parallelism
		}
		if opts.StateFile != "" {
			cfg.Collection.StateFile = &opts.StateFile
		}
		if len(cfg.Outputs) == 0 {
			cfg.Outputs = append(cfg.Outputs, outputConfig(opts))
		}
		return cfg, cfg.Collection.Validate()
	}

	cfg := config.NewConfig()
	if opts.Parallelism > 0 {
		cfg.Collection.Parallelism = &opts.Parallelism
	}
	if opts.StateFile != "" {
		cfg.Collection.StateFile = &opts.StateFile
	}

	filter := cty.NullVal(cty.String)
	if opts.Filter != "" {
		filter = cty.StringVal(opts.Filter)
	}
	if len(opts.Paths) > 0 {
		paths := make([]cty.Value, len(opts.Paths))
		for i, p := range opts.Paths {
			paths[i] = cty.StringVal(p)
		}
		cfg.Source = config.NewSourceConfigData(artifact_source_config.FileSystemSourceIdentifier, config.Attributes{
			"paths":     cty.ListVal(paths),
			"recursive": cty.BoolVal(opts.Recursive),
			"filter":    filter,
		})
	} else {
		cfg.Source = config.NewSourceConfigData(artifact_source_config.CatalogSourceIdentifier, config.Attributes{
			"job_id": cty.NumberIntVal(opts.JobId),
			"filter": filter,
		})
	}
	cfg.Outputs = append(cfg.Outputs, outputConfig(opts))
	return cfg, cfg.Collection.Validate()
}

func outputConfig(opts collectOptions) *config_data.OutputConfigData {
	attributes := config.Attributes{}
	if opts.Output != writer.LogWriterIdentifier {
		attributes["path"] = cty.StringVal(opts.OutputPath)
	}
	return config.NewOutputConfigData(opts.Output, attributes)
}

// runCollect creates the source, stages and outputs described by the config, and runs the collection
func runCollect(ctx context.Context, cfg *config.Config) (*collection.Result, error) {
	source, err := artifact_source.Factory.GetArtifactSource(ctx, cfg.Source)
	if err != nil {
		return nil, err
	}

	mappers, err := artifact_mapper.Factory.GetArtifactMappers(cfg.Collection.GetMappers()...)
	if err != nil {
		return nil, err
	}

	filters := []row_filter.Filter{row_filter.NewCountingFilter()}
	if len(cfg.Collection.Filters) > 0 {
		propertyFilter, err := row_filter.NewPropertyFilter(cfg.Collection.Filters...)
		if err != nil {
			return nil, err
		}
		filters = append(filters, propertyFilter)
	}

	var writers []writer.Writer
	for _, o := range cfg.Outputs {
		w, err := writer.Factory.GetWriter(o)
		if err != nil {
			return nil, err
		}
		writers = append(writers, w)
	}

	opts := []collection.CollectionOption{
		collection.WithMappers(mappers...),
		collection.WithFilters(filters...),
		collection.WithWriters(writers...),
		collection.WithParallelism(cfg.Collection.GetParallelism()),
	}
	if cfg.Collection.StateFile != nil {
		state, err := collection_state.Load(*cfg.Collection.StateFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, collection.WithCollectionState(state))
	}

	c, err := collection.New(source, opts...)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	return c.Collect(ctx)
}

func printResult(cmd *cobra.Command, res *collection.Result) {
	out := cmd.OutOrStdout()
	decoded, skipped, failed := len(res.Decoded()), len(res.Skipped()), len(res.Failed())
	fmt.Fprintf(out, "\nCollected %d %s, skipped %d %s, failed %d %s\n",
		decoded, utils.Pluralize("scene", decoded),
		skipped, utils.Pluralize("artifact", skipped),
		failed, utils.Pluralize("artifact", failed))
	for _, o := range res.Outcomes {
		if o.Status != types.OutcomeDecoded {
			fmt.Fprintf(out, "  %s\n", o.String())
		}
	}
	fmt.Fprint(out, res.Timing.String())
}
