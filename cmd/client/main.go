package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"messenger_service/internal/chat/app"
	"messenger_service/internal/chat/domain"
	"messenger_service/internal/chat/repository"
	"messenger_service/pkg/config"
	"messenger_service/pkg/database"
	"messenger_service/pkg/format"
	"messenger_service/pkg/logger"

	"go.uber.org/zap"
)

const usage = `commands:
  /login <phone> <username>
  /contacts                      list contacts with presence
  /groups                        list groups
  /list chats|groups [query]     search the chat list
  /add <phone> <name>            add a contact
  /group <name> <contact-id>...  create a group
  /open contact|group <id>       open a chat
  /close                         close the open chat
  /send <text>                   send text (plain lines are sent too)
  /attach image|audio|document <path>
  /voice                         record and send a voice note
  /logout
  /quit`

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.Client, config.EnvConfig.ClientLogPath)
	defer logger.Log.Sync()
	cfg := config.LoadConfig[config.Client](config.EnvConfig.Client, config.EnvConfig.ClientYAMLPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := repository.NewAPIClient(cfg.BackendURL, nil)
	deps := app.Deps{
		Users:    repository.NewUserRepository(api),
		Contacts: repository.NewContactRepository(api),
		Groups:   repository.NewGroupRepository(api),
		Messages: repository.NewMessageRepository(api),
		Sessions: newSessionStore(ctx, cfg.Session),
		Blobs:    newBlobStore(ctx, cfg.Blob),
	}

	messenger := app.NewApp(cfg, deps, nil)
	defer messenger.Shutdown()

	messenger.Notifier().Subscribe(func(n app.Notification) {
		fmt.Printf("[%s] %s\n", n.Kind, n.Text)
	})
	printer := newMessagePrinter(os.Stdout)
	messenger.OnMessages(printer.print)

	restored, err := messenger.Init(ctx)
	if err != nil {
		logger.Log.Warn("restore session failed", zap.Error(err))
	}
	if restored {
		user, _ := messenger.CurrentUser()
		fmt.Printf("welcome back %s (%s)\n", user.Username, format.FormatPhoneNumber(user.PhoneNumber))
	} else {
		fmt.Println("not signed in, use /login <phone> <username>")
	}
	fmt.Println(usage)

	lines := make(chan string)
	scanner := bufio.NewScanner(os.Stdin)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	r := &repl{app: messenger, printer: printer, lines: lines, out: os.Stdout}
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if quit := r.handle(ctx, strings.TrimSpace(line)); quit {
				return
			}
		}
	}
}

func newSessionStore(ctx context.Context, cfg config.SessionConfig) repository.SessionStore {
	if cfg.Store == "redis" {
		client, err := database.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.RedisDB)
		if err != nil {
			logger.Log.Fatal("connect redis err", zap.Error(err))
		}
		return repository.NewRedisSessionStore(database.NewRedisRepository[domain.User](client), cfg.Key)
	}
	return repository.NewFileSessionStore(cfg.Dir, cfg.Key)
}

func newBlobStore(ctx context.Context, cfg config.BlobConfig) repository.BlobStore {
	if cfg.Kind == "minio" {
		client, err := database.NewMinIOConnection(ctx, database.MinIOConnection{
			Endpoint:      cfg.MinIO.Endpoint,
			User:          cfg.MinIO.User,
			Password:      cfg.MinIO.Password,
			BucketName:    cfg.MinIO.Bucket,
			UseSSL:        cfg.MinIO.UseSSL,
			RetryCount:    cfg.MinIO.RetryCount,
			RetryInterval: time.Duration(cfg.MinIO.RetryInterval) * time.Second,
		})
		if err != nil {
			logger.Log.Fatal("connect minio err", zap.Error(err))
		}
		return repository.NewMinIOBlobStore(client)
	}
	return repository.NewLocalBlobStore()
}

// messagePrinter prints each message once, the first time a reload shows it.
// While held, reloads print nothing and mark nothing seen.
type messagePrinter struct {
	out  io.Writer
	mu   sync.Mutex
	seen map[domain.ID]bool
	held bool
}

func newMessagePrinter(out io.Writer) *messagePrinter {
	return &messagePrinter{out: out, seen: map[domain.ID]bool{}}
}

func (p *messagePrinter) print(_ string, messages []domain.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.held {
		return
	}
	p.printLocked(messages)
}

func (p *messagePrinter) printLocked(messages []domain.Message) {
	now := time.Now()
	for _, m := range messages {
		if p.seen[m.ID] {
			continue
		}
		p.seen[m.ID] = true
		fmt.Fprintf(p.out, "%s %s  %s: %s\n", format.FormatDate(m.Timestamp, now), format.FormatTime(m.Timestamp.Local()), m.SenderName, render(m))
	}
}

// hold forget what was printed and stop printing until release
func (p *messagePrinter) hold() {
	p.mu.Lock()
	p.seen = map[domain.ID]bool{}
	p.held = true
	p.mu.Unlock()
}

// release print messages not printed yet and resume
func (p *messagePrinter) release(messages []domain.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.held = false
	p.printLocked(messages)
}

func (p *messagePrinter) reset() {
	p.mu.Lock()
	p.seen = map[domain.ID]bool{}
	p.mu.Unlock()
}

func render(m domain.Message) string {
	switch m.Type {
	case domain.MessageText:
		if links := format.DetectLinks(m.Content); len(links) > 0 {
			return fmt.Sprintf("%s  [%d link(s)]", m.Content, len(links))
		}
		return m.Content
	case domain.MessageAudio:
		if m.FileName == "" {
			return "[voice note]"
		}
	}
	return fmt.Sprintf("[%s] %s (%s)", m.Type, m.FileName, m.FileSize)
}

type repl struct {
	app     *app.App
	printer *messagePrinter
	lines   <-chan string
	out     io.Writer
}

// handle run one input line, true to quit
func (r *repl) handle(ctx context.Context, line string) bool {
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, "/") {
		_, _ = r.app.SendText(ctx, line)
		return false
	}

	cmd, rest, _ := strings.Cut(line, " ")
	args := strings.Fields(rest)
	switch cmd {
	case "/quit":
		return true
	case "/help":
		fmt.Fprintln(r.out, usage)
	case "/login":
		if len(args) < 2 {
			fmt.Fprintln(r.out, "usage: /login <phone> <username>")
			return false
		}
		user, err := r.app.Login(ctx, args[0], strings.Join(args[1:], " "))
		if err == nil {
			fmt.Fprintf(r.out, "signed in as %s (%s)\n", user.Username, format.FormatPhoneNumber(user.PhoneNumber))
		}
	case "/logout":
		done, err := r.app.Logout(ctx, r.confirm("log out?"))
		if done && err == nil {
			r.printer.reset()
			fmt.Fprintln(r.out, "signed out")
		}
	case "/contacts":
		for _, c := range r.app.Contacts() {
			fmt.Fprintf(r.out, "%-12s %-20s %-20s %s\n", c.ID, c.Name, format.FormatPhoneNumber(c.PhoneNumber), presence(c))
		}
	case "/groups":
		for _, g := range r.app.Groups() {
			fmt.Fprintf(r.out, "%-12s %-20s %d members  %s\n", g.ID, g.Name, len(g.Members), format.Truncate(g.Description, 40))
		}
	case "/list":
		tab := app.TabChats
		if len(args) > 0 && args[0] == string(app.TabGroups) {
			tab = app.TabGroups
		}
		query := ""
		if len(args) > 1 {
			query = strings.Join(args[1:], " ")
		}
		for _, item := range r.app.ChatList(tab, query) {
			fmt.Fprintf(r.out, "%-12s %-20s %s\n", item.ID, item.Name, item.Subtitle)
		}
	case "/add":
		if len(args) < 2 {
			fmt.Fprintln(r.out, "usage: /add <phone> <name>")
			return false
		}
		if !format.IsValidPhoneNumber(args[0]) {
			fmt.Fprintln(r.out, "warning: not a French phone number")
		}
		_, _ = r.app.AddContact(ctx, strings.Join(args[1:], " "), args[0])
	case "/group":
		if len(args) < 2 {
			fmt.Fprintln(r.out, "usage: /group <name> <contact-id>...")
			return false
		}
		ids := make([]domain.ID, 0, len(args)-1)
		for _, a := range args[1:] {
			ids = append(ids, domain.ID(a))
		}
		_, _ = r.app.CreateGroup(ctx, args[0], "", ids)
	case "/open":
		if len(args) != 2 {
			fmt.Fprintln(r.out, "usage: /open contact|group <id>")
			return false
		}
		r.open(ctx, args[0], domain.ID(args[1]))
	case "/close":
		r.app.CloseChat()
	case "/send":
		_, _ = r.app.SendText(ctx, rest)
	case "/attach":
		if len(args) != 2 {
			fmt.Fprintln(r.out, "usage: /attach image|audio|document <path>")
			return false
		}
		r.attach(ctx, domain.MessageType(args[0]), args[1])
	case "/voice":
		_, _ = r.app.SendVoice(ctx)
	default:
		fmt.Fprintln(r.out, usage)
	}
	return false
}

func (r *repl) open(ctx context.Context, kind string, id domain.ID) {
	var (
		chat *app.ChatSession
		err  error
	)
	r.printer.hold()
	if kind == "group" {
		chat, err = r.app.OpenGroupChat(ctx, id)
	} else {
		chat, err = r.app.OpenContactChat(ctx, id)
	}
	if err != nil || chat == nil {
		r.printer.release(nil)
		return
	}
	fmt.Fprintf(r.out, "-- %s --\n", chat.Ref().Name())
	r.printer.release(chat.Messages())
}

func (r *repl) attach(ctx context.Context, kind domain.MessageType, path string) {
	f, err := os.Open(path)
	if err != nil {
		r.app.Notifier().Error(err.Error())
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		r.app.Notifier().Error(err.Error())
		return
	}
	_, _ = r.app.SendAttachment(ctx, kind, repository.Attachment{
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Body:        f,
	})
}

// confirm ask a yes/no question on the next input line
func (r *repl) confirm(question string) func() bool {
	return func() bool {
		fmt.Fprintf(r.out, "%s [y/N] ", question)
		answer, ok := <-r.lines
		if !ok {
			return false
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	}
}

func presence(c domain.ContactView) string {
	if c.IsOnline {
		return "online"
	}
	if c.LastSeen != nil {
		return "last seen " + format.FormatTime(c.LastSeen.Local())
	}
	return "offline"
}
