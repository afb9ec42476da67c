// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taskweave-cli/internal/sshserver"
	"taskweave-cli/pkg/types"
)

var (
	serveHost           string
	servePort           int
	serveAuthorizedKeys string

	// serveCmd exposes the resolved task registry over SSH. Remote sessions
	// can list tasks, run them with arguments, or open an interactive shell.
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve tasks over SSH",
		Long: `Serve the resolved task registry over SSH.

Remote clients list and run tasks with:
  ssh -p <port> <host> list
  ssh -p <port> <host> run <task-id> [--<param> <value>...]

Without an authorized keys file the server rejects all public keys; set
server.authorized_keys in the configuration (or --authorized-keys) before
exposing the server beyond the local host.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := buildApp(cmd.Context(), appOptions{ConfigFile: cfgFile, Verbose: verbose})
			if err != nil {
				return err
			}
			app.ReportDiagnostics(os.Stderr)

			serverCfg := app.Config.Server
			srvCfg := sshserver.DefaultConfig()
			srvCfg.Host = sshserver.HostAddress(serverCfg.Host)
			srvCfg.Port = serverCfg.Port
			srvCfg.AuthorizedKeys = serverCfg.AuthorizedKeys
			srvCfg.WorkDir = app.WorkDir
			if serveHost != "" {
				srvCfg.Host = sshserver.HostAddress(serveHost)
			}
			if cmd.Flags().Changed("port") {
				srvCfg.Port = types.ListenPort(servePort)
			}
			if serveAuthorizedKeys != "" {
				srvCfg.AuthorizedKeys = serveAuthorizedKeys
			}
			if !serverCfg.Enabled {
				app.Logger.Debug("server not enabled in configuration, serving for this session only")
			}

			srv, err := sshserver.New(srvCfg, app.Registry, app.Resolver, app.Logger)
			if err != nil {
				return err
			}
			if err := srv.Start(cmd.Context()); err != nil {
				return err
			}
			fmt.Printf("%s listening on %s\n", SuccessStyle.Render("taskweave"), TaskStyle.Render(srv.Address()))

			select {
			case <-cmd.Context().Done():
			case err := <-srv.Err():
				if err != nil {
					_ = srv.Stop()
					return err
				}
			}
			return srv.Stop()
		},
	}
)

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen address (overrides server.host)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides server.port)")
	serveCmd.Flags().StringVar(&serveAuthorizedKeys, "authorized-keys", "", "authorized keys file (overrides server.authorized_keys)")
}
