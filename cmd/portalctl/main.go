// Command portalctl logs into the ERP backend from a terminal and keeps the
// session in the same storage file the portal server uses with
// STORAGE_DRIVER=file, so a running portal sees the login.
//
//	portalctl [-client ID] login student|teacher|admin
//	portalctl [-client ID] whoami
//	portalctl [-client ID] notices
//	portalctl [-client ID] logout
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/stemsi/erp-portal/internal/api"
	"github.com/stemsi/erp-portal/internal/config"
	"github.com/stemsi/erp-portal/internal/logger"
	"github.com/stemsi/erp-portal/internal/model"
	"github.com/stemsi/erp-portal/internal/session"
	"github.com/stemsi/erp-portal/internal/storage"
	"golang.org/x/term"
)

// clientKey holds the client ID this tool uses when -client is not given.
const clientKey = "portalctl:client"

func main() {
	clientFlag := flag.String("client", "", "client ID to act as (default: this tool's own)")
	flag.Parse()

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Open Storage File ─────────────────────────────────────────────
	file, err := storage.OpenFile(cfg.StorageFile, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage file")
	}
	defer file.Close()

	var st storage.Storage = file
	if cfg.SessionSecret != "" {
		st = storage.NewSealed(file, cfg.SessionSecret)
	}

	clientID, err := resolveClient(ctx, file, *clientFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to resolve client ID")
	}
	store := session.NewProvider(st, nil, log).For(clientID)
	client := api.New(cfg.BackendURL, cfg.BackendTimeout, log)

	// ─── Dispatch ──────────────────────────────────────────────────────
	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	switch args[0] {
	case "login":
		if len(args) < 2 {
			usage()
			os.Exit(2)
		}
		role, ok := model.ParseRole(args[1])
		if !ok {
			fmt.Printf("Error: unknown role %q\n", args[1])
			os.Exit(2)
		}
		err = login(ctx, client, store, role)
	case "whoami":
		err = whoami(ctx, client, store)
	case "notices":
		err = notices(ctx, client, store)
	case "logout":
		err = store.ClearSession(ctx)
		if err == nil {
			fmt.Println("Logged out.")
		}
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Println("Error:", errorText(err))
		log.Debug().Err(err).Str("command", args[0]).Msg("Command failed")
		os.Exit(1)
	}
}

// errorText prefers the backend's own message for backend failures.
func errorText(err error) string {
	var netErr *api.NetworkError
	if _, ok := api.StatusOf(err); ok || errors.As(err, &netErr) {
		return api.Message(err)
	}
	return err.Error()
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: portalctl [-client ID] login <student|teacher|admin> | whoami | notices | logout")
}

// resolveClient returns flagID when set, otherwise this tool's own client
// ID, creating it on first use.
func resolveClient(ctx context.Context, st storage.Storage, flagID string) (string, error) {
	if flagID != "" {
		if err := uuid.Validate(flagID); err != nil {
			return "", fmt.Errorf("invalid client ID: %w", err)
		}
		return flagID, nil
	}
	id, ok, err := st.Get(ctx, clientKey)
	if err != nil {
		return "", err
	}
	if ok {
		return id, nil
	}
	id = uuid.NewString()
	if err := st.Set(ctx, clientKey, id); err != nil {
		return "", err
	}
	return id, nil
}

func login(ctx context.Context, client *api.Client, store *session.Store, role model.Role) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Printf("=== %s Login ===\n", strings.ToUpper(string(role)[:1])+string(role)[1:])

	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}

	var rollNo string
	if role == model.RoleStudent {
		fmt.Print("Enter Roll No: ")
		rollNo, _ = reader.ReadString('\n')
		rollNo = strings.TrimSpace(rollNo)
	}

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	resp, err := client.Login(ctx, role, model.LoginRequest{
		Email:    email,
		Password: string(bytePassword),
		RollNo:   rollNo,
	})
	if err != nil {
		return err
	}
	if err := store.SetSession(ctx, resp.Token, role, email); err != nil {
		return err
	}

	fmt.Println(resp.Message)
	fmt.Println("Client ID:", store.ClientID())
	return nil
}

func whoami(ctx context.Context, client *api.Client, store *session.Store) error {
	sess, ok := store.Session(ctx)
	if !ok {
		fmt.Println("Not logged in.")
		return nil
	}

	out := map[string]any{
		"client_id": store.ClientID(),
		"role":      sess.Role,
		"identity":  sess.IdentityLabel,
	}
	if info, ok := store.TokenInfo(ctx); ok {
		out["token"] = info
	}

	authed := client.WithTokens(store)
	switch sess.Role {
	case model.RoleStudent:
		profile, err := authed.StudentProfile(ctx)
		if err != nil {
			return err
		}
		out["profile"] = profile
	case model.RoleTeacher:
		profile, err := authed.TeacherProfile(ctx)
		if err != nil {
			return err
		}
		out["profile"] = profile
	}

	return printJSON(out)
}

func notices(ctx context.Context, client *api.Client, store *session.Store) error {
	sess, ok := store.Session(ctx)
	if !ok {
		return errors.New("not logged in")
	}
	authed := client.WithTokens(store)

	var (
		items []model.Notice
		err   error
	)
	if sess.Role == model.RoleTeacher {
		items, err = authed.TeacherNotices(ctx)
	} else {
		items, err = authed.Notices(ctx)
	}
	if err != nil {
		return err
	}
	return printJSON(items)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
