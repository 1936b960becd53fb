package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"SunPortal/chat"
	"SunPortal/chat/panel"
	"SunPortal/entity"
	"SunPortal/internal/config"
	"SunPortal/internal/lib/logger"
	"SunPortal/internal/lib/sl"
	"SunPortal/internal/portal"
	"SunPortal/internal/session"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env)

	lg.Info("starting portal console",
		slog.String("config", *configPath),
		slog.String("env", conf.Env),
		slog.String("api", conf.API.BaseURL),
	)

	sess := session.New(conf.Session.TokenFile)
	if sess.Restore() {
		lg.Info("session restored from token file")
	}

	api := portal.New(conf, sess, lg)
	factory := chat.NewFactory(conf, lg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	adminPanel := panel.New(api, factory, conf.Chat.PageSize, lg, func(e panel.Event) {
		switch e.Kind {
		case panel.EventMessage:
			fmt.Printf("\n[%s] %s\n> ", e.Message.CreatedAt.Format("15:04"), e.Message.Text)
		case panel.EventTyping:
			if e.IsTyping {
				fmt.Printf("\n… %s is typing\n> ", e.UserID)
			}
		case panel.EventDisconnected:
			fmt.Printf("\n! connection to thread %s lost: %v\n> ", e.ThreadID, e.Err)
		}
	})
	defer adminPanel.Close()

	adminPanel.StartPolling(ctx, conf.PollInterval())

	console(ctx, lg, api, adminPanel)
	lg.Info("console stopped")
}

func console(ctx context.Context, lg *slog.Logger, api *portal.Client, adminPanel *panel.Panel) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			fmt.Print("> ")
			continue
		}

		args := strings.Fields(line)
		cmd, rest := args[0], args[1:]

		switch cmd {
		case "help":
			printHelp()

		case "login":
			if len(rest) < 2 {
				fmt.Println("usage: login <email> <password>")
				break
			}
			needs2FA, err := api.Login(ctx, rest[0], rest[1])
			if err != nil {
				fmt.Println("login failed:", err)
				break
			}
			if needs2FA {
				fmt.Print("2fa code: ")
				if scanner.Scan() {
					code := strings.TrimSpace(scanner.Text())
					if err := api.VerifyTwoFactor(ctx, rest[0], code); err != nil {
						fmt.Println("2fa failed:", err)
						break
					}
				}
			}
			fmt.Println("logged in")

		case "logout":
			api.Logout(ctx)
			fmt.Println("logged out")

		case "threads":
			if err := adminPanel.RefreshThreads(ctx); err != nil {
				fmt.Println("refresh failed:", err)
				break
			}
			for i, t := range adminPanel.Threads() {
				marker := " "
				if t.Unread {
					marker = "*"
				}
				fmt.Printf("%s %d. %s (%s, last %s)\n",
					marker, i+1, t.Name, onlineLabel(t.IsOnline),
					t.LastMessageAt.Format("Jan 2 15:04"))
			}

		case "open":
			if len(rest) < 1 {
				fmt.Println("usage: open <number>")
				break
			}
			n, err := strconv.Atoi(rest[0])
			threads := adminPanel.Threads()
			if err != nil || n < 1 || n > len(threads) {
				fmt.Println("no such thread")
				break
			}
			if err := adminPanel.SelectThread(ctx, threads[n-1].ID); err != nil {
				fmt.Println("open failed:", err)
				break
			}
			printTranscript(adminPanel.Transcript())

		case "older":
			added, err := adminPanel.LoadOlder(ctx)
			if err != nil {
				fmt.Println("load failed:", err)
				break
			}
			if added == 0 {
				fmt.Println("no older messages")
				break
			}
			printTranscript(adminPanel.Transcript())

		case "send":
			if len(rest) == 0 {
				fmt.Println("usage: send <text>")
				break
			}
			if err := adminPanel.Send(strings.Join(rest, " ")); err != nil {
				fmt.Println("send failed:", err)
			}

		case "archive":
			id := adminPanel.Current()
			if len(rest) > 0 {
				id = rest[0]
			}
			if id == "" {
				fmt.Println("no thread open")
				break
			}
			if err := adminPanel.ArchiveThread(ctx, id); err != nil {
				fmt.Println("archive failed:", err)
				break
			}
			fmt.Println("archived")

		case "requests":
			status := ""
			if len(rest) > 0 {
				status = rest[0]
			}
			requests, err := api.AllRequests(ctx, status, "")
			if err != nil {
				fmt.Println("list failed:", err)
				break
			}
			for _, r := range requests {
				fmt.Printf("%s  %-12s %-11s %s %s  %s\n",
					r.ID, r.Type, r.Status,
					r.PreferredDate.Format("2006-01-02"), r.PreferredTime, r.Location)
			}

		case "respond":
			if err := respond(ctx, api, rest); err != nil {
				fmt.Println("respond failed:", err)
			}

		case "accept":
			if len(rest) < 1 {
				fmt.Println("usage: accept <request-id>")
				break
			}
			if err := api.AcceptReschedule(ctx, rest[0]); err != nil {
				fmt.Println("accept failed:", err)
			}

		case "quit", "exit":
			return

		default:
			fmt.Println("unknown command, try: help")
		}

		fmt.Print("> ")
	}

	if err := scanner.Err(); err != nil {
		lg.With(sl.Err(err)).Error("console input")
	}
}

// respond parses `respond <id> <status> [yyyy-mm-dd] [message...]` and
// issues the admin respond action.
func respond(ctx context.Context, api *portal.Client, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: respond <id> <accepted|rejected|rescheduled> [yyyy-mm-dd] [message]")
	}
	id, status := args[0], args[1]
	args = args[2:]

	var newDate time.Time
	if status == entity.StatusRescheduled {
		if len(args) == 0 {
			return fmt.Errorf("rescheduling requires a proposed date")
		}
		parsed, err := time.Parse("2006-01-02", args[0])
		if err != nil {
			return fmt.Errorf("bad date %q: %w", args[0], err)
		}
		newDate = parsed
		args = args[1:]
	}

	return api.RespondToRequest(ctx, id, status, strings.Join(args, " "), newDate)
}

func printTranscript(messages []entity.ChatMessage) {
	for _, m := range messages {
		sender := "customer"
		if m.IsAdmin {
			sender = "admin"
		}
		fmt.Printf("[%s] %-8s %s\n", m.CreatedAt.Format("Jan 2 15:04"), sender, m.Text)
	}
}

func printHelp() {
	fmt.Println(`commands:
  login <email> <password>   authenticate
  logout                     drop the session
  threads                    list active support threads
  open <n>                   open a thread (closes the previous one)
  older                      load older history
  send <text>                send a message to the open thread
  archive [id]               archive the open (or given) thread
  requests [status]          list service requests
  respond <id> <status> [date] [message]
  accept <id>                accept a proposed reschedule
  quit`)
}

func onlineLabel(online bool) string {
	if online {
		return "online"
	}
	return "offline"
}
