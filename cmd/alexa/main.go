// Command alexa is an interactive customer-support chatbot that remembers
// the user's name across sessions.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/supportdesk/alexa/chatbot"
	"github.com/supportdesk/alexa/config"
	"github.com/supportdesk/alexa/llm"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		fmt.Fprintln(os.Stderr, "Please create a .env file with your API key.")
		os.Exit(1)
	}

	bot, err := chatbot.New(cfg, llm.New(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	defer bot.Close()

	printWelcome()
	if name, ok := bot.RememberedName(); ok {
		fmt.Printf("Welcome back, %s!\n\n", name)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)
	go func() {
		<-sigch
		fmt.Println("\n\nSession interrupted. Exiting...")
		cancel()
	}()

	// stdin reader goroutine so the prompt loop can also observe ctx.
	inputCh := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			inputCh <- scanner.Text()
		}
		close(inputCh)
	}()

	for {
		fmt.Print("You: ")
		var (
			input string
			ok    bool
		)
		select {
		case <-ctx.Done():
			return
		case input, ok = <-inputCh:
			if !ok {
				return
			}
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "/quit", "/exit":
			fmt.Println("\nThank you for chatting with Alexa. Goodbye!")
			return

		case "/reset":
			bot.ResetConversation()
			fmt.Println("Conversation has been reset. (User memory retained)")
			continue

		case "/export":
			path, err := bot.ExportConversation("")
			if err != nil {
				fmt.Printf("ERROR: Failed to export: %v\n", err)
				continue
			}
			fmt.Printf("Conversation exported to: %s\n", path)
			continue

		case "/memory":
			if name, ok := bot.RememberedName(); ok {
				fmt.Printf("\nStored information:\n   Your name: %s\n\n", name)
			} else {
				fmt.Print("\nNo information stored yet.\n\n")
			}
			continue

		case "/forget":
			fmt.Print("Are you sure you want to clear all memory? (yes/no): ")
			var confirm string
			select {
			case <-ctx.Done():
				return
			case confirm, ok = <-inputCh:
				if !ok {
					return
				}
			}
			if strings.EqualFold(strings.TrimSpace(confirm), "yes") {
				if err := bot.ForgetMe(); err != nil {
					fmt.Printf("ERROR: Failed to clear memory: %v\n", err)
					continue
				}
				fmt.Println("All user memory has been cleared.")
			}
			continue
		}

		reply, err := bot.SendMessage(ctx, input)
		if err != nil {
			printSendError(err)
			continue
		}
		fmt.Printf("\nAlexa: %s\n\n", reply)
	}
}

func printSendError(err error) {
	if errors.Is(err, chatbot.ErrEmptyMessage) {
		fmt.Println("Please enter a valid message.")
		return
	}
	switch {
	case errors.Is(err, llm.ErrInvalidAPIKey):
		fmt.Println("ERROR: Invalid API key.")
	case errors.Is(err, llm.ErrRateLimited):
		fmt.Println("ERROR: Rate limit exceeded.")
	case errors.Is(err, llm.ErrTimeout):
		fmt.Println("ERROR: Request timed out. Please try again.")
	default:
		fmt.Printf("ERROR: %v\n", err)
	}
	fmt.Println("Failed to get response. Please try again.")
	fmt.Println()
}

func printWelcome() {
	line := strings.Repeat("=", 60)
	fmt.Println("\n" + line)
	fmt.Println("       ALEXA - CUSTOMER SUPPORT CHATBOT")
	fmt.Println(line)
	fmt.Println("\nHello! I'm Alexa, your customer support assistant.")
	fmt.Println("I'll remember your name across sessions!")
	fmt.Println("\nCommands:")
	fmt.Println("  - Type your question to chat")
	fmt.Println("  - '/reset' to start a new conversation")
	fmt.Println("  - '/export' to save conversation history")
	fmt.Println("  - '/memory' to see what I remember about you")
	fmt.Println("  - '/forget' to clear all memory")
	fmt.Println("  - '/quit' or '/exit' to end the session")
	fmt.Println(line + "\n")
}
