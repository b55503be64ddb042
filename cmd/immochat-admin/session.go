package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/immochat/immochat-web/config"
	"github.com/immochat/immochat-web/internal/bootstrap"
	"github.com/immochat/immochat-web/internal/ports"
)

func (a *app) sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect and revoke stored sessions",
		Long: `Inspect and revoke sessions in the store selected by SESSION_STORE.

Examples:
  immochat-admin session show 6f1c0d9e-...
  immochat-admin session revoke 6f1c0d9e-...
  immochat-admin session purge`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(a.sessionShowCmd(), a.sessionRevokeCmd(), a.sessionPurgeCmd())
	return cmd
}

// keyTTLReader is implemented by stores whose keys expire on their own (Redis).
type keyTTLReader interface {
	TTL(ctx context.Context, id string) (time.Duration, error)
}

func (a *app) sessionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Print a stored session as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(ctx context.Context, store ports.SessionStore) error {
				sess, err := store.Get(ctx, args[0])
				if err != nil {
					return fmt.Errorf("get session %s: %w", args[0], err)
				}
				out := struct {
					Session   any    `json:"session"`
					Expired   bool   `json:"expired"`
					ExpiresIn string `json:"expires_in,omitempty"`
					KeyTTL    string `json:"key_ttl,omitempty"`
				}{Session: sess, Expired: sess.Expired(time.Now())}
				if !out.Expired {
					out.ExpiresIn = time.Until(sess.ExpiresAt).Round(time.Second).String()
				}
				if ttlStore, ok := store.(keyTTLReader); ok {
					ttl, err := ttlStore.TTL(ctx, args[0])
					if err != nil {
						return fmt.Errorf("read ttl of session %s: %w", args[0], err)
					}
					out.KeyTTL = ttl.Round(time.Second).String()
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			})
		},
	}
}

func (a *app) sessionRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <session-id>...",
		Short: "Delete sessions so their cookies stop working",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(ctx context.Context, store ports.SessionStore) error {
				var errs []error
				for _, id := range args {
					if err := store.Delete(ctx, id); err != nil {
						errs = append(errs, fmt.Errorf("revoke %s: %w", id, err))
						continue
					}
					if _, err := fmt.Fprintf(cmd.OutOrStdout(), "revoked %s\n", id); err != nil {
						return err
					}
				}
				return errors.Join(errs...)
			})
		},
	}
}

func (a *app) sessionPurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete expired sessions from the Postgres store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Auth.SessionStore != config.SessionStorePostgres {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "nothing to purge: redis expires sessions itself")
				return err
			}
			return a.withStore(cmd.Context(), func(ctx context.Context, store ports.SessionStore) error {
				purger, ok := store.(ports.SessionPurger)
				if !ok {
					return errors.New("session store does not support purging")
				}
				n, err := purger.DeleteExpired(ctx)
				if err != nil {
					return fmt.Errorf("purge expired sessions: %w", err)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "purged %d expired sessions\n", n)
				return err
			})
		},
	}
}

func (a *app) withStore(ctx context.Context, f func(context.Context, ports.SessionStore) error) error {
	return a.withInfra(ctx, func(ctx context.Context, infra *bootstrap.Infra) error {
		store, err := bootstrap.BuildSessionStore(bootstrap.AuthConfig{
			Auth:        a.cfg.Auth,
			Redis:       a.cfg.Redis,
			RedisClient: infra.Redis,
			DB:          infra.DB,
			Logger:      a.logger,
		})
		if err != nil {
			return err
		}
		return f(ctx, store)
	})
}
