package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ldi/jot/internal/mcp"
	"github.com/ldi/jot/internal/server"
	"github.com/ldi/jot/internal/snapshot"
	"github.com/ldi/jot/internal/store"
	"github.com/ldi/jot/internal/ui"
)

var dataPath string

func main() {
	flag.StringVar(&dataPath, "data-path", ".jot/tasks.json", "Path to the task snapshot file")
	flag.Parse()

	if flag.NArg() == 0 {
		// Interactive mode.
		if err := ui.Run(openStore()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	var err error
	switch command {
	case "add":
		err = runAdd(args)
	case "list":
		err = runList(args)
	case "done":
		err = runSetCompleted(args, true)
	case "undone":
		err = runSetCompleted(args, false)
	case "edit":
		err = runEdit(args)
	case "rm":
		err = runRemove(args)
	case "web":
		err = runWeb(args)
	case "mcp":
		err = runMCP(args)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openStore loads the snapshot, seeds the store with it and installs the
// auto-save hook so every successful mutation persists the full collection.
func openStore() *store.Store {
	gw := snapshot.New(dataPath)
	st := store.New(gw.Load())
	st.SetOnChange(gw.AutoSave(st.Tasks))
	return st
}

func runAdd(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: jot add <text>")
	}

	st := openStore()
	now := time.Now()
	task := st.Add(strings.Join(args, " "), now.Format("2006-01-02"), now.Format("15:04"))
	if task == nil {
		return fmt.Errorf("task text must not be blank")
	}
	fmt.Printf("Added %s\n", task.ID)
	return nil
}

func runList(args []string) error {
	st := openStore()
	tasks := st.List()
	if len(tasks) == 0 {
		fmt.Println("No tasks.")
		return nil
	}

	for _, t := range tasks {
		checkbox := "[ ]"
		if t.Completed {
			checkbox = "[x]"
		}
		fmt.Printf("%s %s %s  %s  %s\n", checkbox, t.Date, t.Time, t.ID, t.Text)
	}
	return nil
}

func runSetCompleted(args []string, completed bool) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: jot done|undone <id>")
	}

	st := openStore()
	if err := st.SetCompleted(args[0], completed); err != nil {
		return fmt.Errorf("%w: %s", err, args[0])
	}
	return nil
}

func runEdit(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: jot edit <id> <text>")
	}

	st := openStore()
	id := args[0]
	text := strings.Join(args[1:], " ")
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("task text must not be blank")
	}
	if err := st.UpdateText(id, text); err != nil {
		return fmt.Errorf("%w: %s", err, id)
	}
	return nil
}

func runRemove(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: jot rm <id>")
	}

	st := openStore()
	if err := st.Remove(args[0]); err != nil {
		return fmt.Errorf("%w: %s", err, args[0])
	}
	return nil
}

func runWeb(args []string) error {
	addr := ":8080"
	if len(args) > 0 {
		addr = args[0]
	}

	srv := server.NewServer(openStore())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(addr)
	}()
	fmt.Printf("Serving tasks on %s\n", addr)

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func runMCP(args []string) error {
	return mcp.Serve(mcp.NewServer(openStore()))
}
