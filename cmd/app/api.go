package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
	"k8s.io/component-base/cli/flag"
	"k8s.io/component-base/logs"
	"k8s.io/klog/v2"

	"github.com/dn42/autopeerd/cmd/app/middleware"
	"github.com/dn42/autopeerd/cmd/app/options"
	"github.com/dn42/autopeerd/cmd/app/router"
	"github.com/dn42/autopeerd/cmd/app/routes/peer"
	"github.com/dn42/autopeerd/internal/pkg/ipcclient"
	"github.com/dn42/autopeerd/internal/pkg/pgp"
	"github.com/dn42/autopeerd/internal/pkg/privsep"
	"github.com/dn42/autopeerd/internal/pkg/provision"
	"github.com/dn42/autopeerd/internal/pkg/session"
	"github.com/dn42/autopeerd/internal/store/sqlite"
	"github.com/dn42/autopeerd/internal/worker"
)

const basename = "autopeerd"

// workerFDFlagName is privsep.WorkerFDFlag without its leading dashes,
// since pflag registers flags by their bare name.
var workerFDFlagName = strings.TrimPrefix(privsep.WorkerFDFlag, "--")

// NewAPICommand builds autopeerd's single entry point. Every invocation
// runs the exact same binary and config; which half of the privilege split
// (§5, §9) it plays is decided at runtime by whether --worker-fd is set,
// not by a separate subcommand, since the unprivileged child is always a
// re-exec of this same process rather than something an operator invokes
// directly.
func NewAPICommand(ctx context.Context) *cobra.Command {
	opts := options.NewOptions()
	workerFD := -1

	cmd := &cobra.Command{
		Use:   basename,
		Short: "autopeerd automates DN42 BGP peering over signed peer requests",
		Long:  "autopeerd authenticates PGP-signed peering requests against a DN42-style registry, provisions WireGuard tunnels, and regenerates bgpd configuration for new neighbors.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			if err := viper.Unmarshal(opts); err != nil {
				return err
			}

			logs.InitLogs()
			defer logs.FlushLogs()

			if opts.Log.LogFile != "" {
				klog.SetOutput(&lumberjack.Logger{
					Filename:   opts.Log.LogFile,
					MaxSize:    opts.Log.MaxSize,
					MaxBackups: opts.Log.MaxBackups,
					MaxAge:     opts.Log.MaxAge,
					Compress:   opts.Log.Compress,
				})
			}

			if errs := opts.Validate(); len(errs) != 0 {
				for _, err := range errs {
					fmt.Fprintln(os.Stderr, "Error:", err)
				}
				os.Exit(1)
			}

			return run(ctx, opts, workerFD)
		},
	}

	nfs := opts.AddFlags(cmd.Flags())
	flag.SetUsageAndHelpFunc(cmd, *nfs, 80)

	// Hidden re-exec signal: never shown in --help, never set by an
	// operator. privsep.Spawn appends it when re-execing the dropped-
	// privilege child (internal/pkg/privsep.WorkerFDFlag).
	cmd.Flags().IntVar(&workerFD, workerFDFlagName, -1, "internal: inherited privsep socket fd")
	_ = cmd.Flags().MarkHidden(workerFDFlagName)

	return cmd
}

func run(ctx context.Context, opts *options.Options, workerFD int) error {
	if err := opts.Session.EnsureSecret(opts.Registry.DbDir); err != nil {
		return err
	}

	if workerFD >= 0 {
		return runFrontend(ctx, opts, workerFD)
	}
	return runParent(ctx, opts)
}

// runParent is the original, root-retaining invocation: it re-execs itself
// as the dropped-privilege HTTP front-end, then serves the privileged
// worker's command loop itself (spec.md §5's "parent stays root").
func runParent(ctx context.Context, opts *options.Options) error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}

	workerConn, child, err := privsep.Spawn(exe, os.Args[1:]...)
	if err != nil {
		return err
	}

	factory, err := sqlite.GetSqliteFactoryOr(opts.Registry)
	if err != nil {
		return err
	}
	defer factory.Close()

	engine := provision.NewEngine(opts.WireGuard, provision.NewExecRunner())
	w := worker.New(workerConn, engine, factory.Peers())

	go func() {
		if err := w.Run(); err != nil {
			klog.ErrorS(err, "worker command loop exited")
		}
	}()
	go func() {
		if err := child.Wait(); err != nil {
			klog.ErrorS(err, "HTTP front-end child exited")
		}
	}()

	<-ctx.Done()
	return nil
}

// runFrontend is the re-exec'd child: it drops to the unprivileged
// autopeer user/group, then serves HTTP, reaching the privileged worker
// only through the inherited ipc socket (spec.md §5, §9).
func runFrontend(ctx context.Context, opts *options.Options, workerFD int) error {
	conn, err := privsep.ChildWorkerConn(workerFD)
	if err != nil {
		return err
	}

	if err := privsep.DropPrivileges(opts.Privsep.User, opts.Privsep.Group); err != nil {
		return err
	}

	verifier := pgp.NewKeyringVerifier(filepath.Join(opts.Registry.DbDir, "keyring"))
	cache := session.NewCache(opts.Session.Capacity, opts.Session.Expiration)
	go cache.RunPeriodicClear(opts.Session.Expiration)
	minter := session.NewMinter(opts.Session.Secret, opts.Session.Expiration)
	ipcClient := ipcclient.New(conn)

	deps := router.Deps{
		SignatureAuth: middleware.SignatureAuth(opts.Registry.Registry, verifier, provision.NewExecRunner()),
		TokenAuth:     middleware.TokenAuth(cache, minter),
		Peer:          peer.New(ipcClient, cache, minter),
	}

	insecureAddress := fmt.Sprintf("%s:%d", opts.InsecureServing.BindAddress, opts.InsecureServing.BindPort)
	klog.V(1).InfoS("HTTP front-end listening", "address", insecureAddress)
	go func() {
		klog.Fatal(router.New(deps).Run(insecureAddress))
	}()

	<-ctx.Done()
	return nil
}
