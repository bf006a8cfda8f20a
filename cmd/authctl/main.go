package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Pazitos10/fastapi-auth-ds/auth"
	"github.com/Pazitos10/fastapi-auth-ds/internal/config"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("authctl failed")
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Msgf("Recovered from panic: %v", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := loadConfig()
	setupLogging(c)
	displayAppname(c.GetAppName())

	service, err := auth.NewFromConfig(c)
	if err != nil {
		return fmt.Errorf("auth.NewFromConfig: %w", err)
	}

	if len(os.Args) < 2 {
		usage()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch os.Args[1] {
	case "login":
		return loginCmd(ctx, service)
	case "logout":
		return service.Logout(ctx)
	case "register":
		return registerCmd(ctx, service)
	case "reset-password":
		return resetPasswordCmd(ctx, service)
	case "forgot-password":
		return forgotPasswordCmd(ctx, service)
	case "recover-password":
		return recoverPasswordCmd(ctx, service)
	case "whoami":
		return whoamiCmd(ctx, service)
	default:
		usage()
		return fmt.Errorf("unknown command %q", os.Args[1])
	}
}

func loadConfig() config.Config {
	path := config.GetEnv("AUTHCTL_CONFIG", "")
	if path == "" {
		return config.New()
	}
	c, err := config.FromFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("config file unreadable, using environment")
		return config.New()
	}
	return c
}

func setupLogging(c config.Config) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

func loginCmd(ctx context.Context, service *auth.Service) error {
	username := prompt("Username: ")
	password := prompt("Password: ")

	if err := service.Login(ctx, username, password); err != nil {
		if msg := service.State().Err; msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		return err
	}

	user := service.CurrentUser()
	fmt.Printf("Sesión iniciada como %s (%s)\n", user.Username, user.Role())
	return nil
}

func registerCmd(ctx context.Context, service *auth.Service) error {
	username := prompt("Username: ")
	email := prompt("Email: ")
	password := prompt("Password: ")

	if err := service.Register(ctx, username, email, password); err != nil {
		if msg := service.State().Err; msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		return err
	}

	fmt.Println("Cuenta creada. Iniciá sesión para continuar.")
	return nil
}

func resetPasswordCmd(ctx context.Context, service *auth.Service) error {
	current := prompt("Current password: ")
	updated := prompt("New password: ")

	if err := service.ResetPassword(ctx, current, updated); err != nil {
		if msg := service.State().Err; msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		return err
	}

	fmt.Println("Contraseña actualizada.")
	return nil
}

func forgotPasswordCmd(ctx context.Context, service *auth.Service) error {
	email := prompt("Email: ")

	msg, err := service.ForgotPassword(ctx, email)
	if err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}

func recoverPasswordCmd(ctx context.Context, service *auth.Service) error {
	recoveryToken := prompt("Recovery token: ")
	updated := prompt("New password: ")

	msg, err := service.RecoverPassword(ctx, recoveryToken, updated)
	if err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}

func whoamiCmd(ctx context.Context, service *auth.Service) error {
	if err := service.Validate(ctx); err != nil {
		fmt.Println("No hay una sesión activa.")
		return nil
	}

	user := service.CurrentUser()
	fmt.Printf("%s <%s> rol=%s\n", user.Username, user.Email, user.Role())
	return nil
}

func prompt(label string) string {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func usage() {
	fmt.Println("usage: authctl <login|logout|register|reset-password|forgot-password|recover-password|whoami>")
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
