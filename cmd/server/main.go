package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/luisrdz5/sistemahacienda-sub001/internal/auth"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/config"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/database"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/logger"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/models"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	app := &cli.App{
		Name:  "hacienda",
		Usage: "libro de ventas, abonos y cortes de caja",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			issueTokenCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap carga configuración, logger y base; lo comparten todos los comandos.
func bootstrap() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	for _, w := range cfg.Warnings {
		log.Warn(w)
	}

	db, err := database.Open(cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, nil, nil, err
	}
	return cfg, log, db, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "levanta la API HTTP",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "migrate", Value: true, Usage: "ejecuta AutoMigrate antes de escuchar"},
		},
		Action: func(c *cli.Context) error {
			cfg, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			if c.Bool("migrate") {
				if err := database.Migrate(db, log); err != nil {
					return err
				}
			}

			app := newApp(cfg, db, log)

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info("servidor escuchando", zap.String("port", cfg.HTTPPort), zap.String("env", cfg.AppEnv))
				errCh <- app.Listen(":" + cfg.HTTPPort)
			}()

			select {
			case err := <-errCh:
				return errors.Wrap(err, "el servidor se detuvo")
			case <-ctx.Done():
			}

			log.Info("apagando servidor")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return app.ShutdownWithContext(shutdownCtx)
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "crea o actualiza las tablas",
		Action: func(c *cli.Context) error {
			_, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()
			return database.Migrate(db, log)
		},
	}
}

// issue-token emite un JWT para un usuario; si no existe y se indica --role, lo da de alta.
func issueTokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "issue-token",
		Usage: "emite un token de acceso para un usuario",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "name", Usage: "nombre al crear el usuario"},
			&cli.StringFlag{Name: "role", Usage: "super_admin | branch_admin; crea el usuario si no existe"},
			&cli.UintFlag{Name: "branch-id", Usage: "sucursal para branch_admin"},
			&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour},
		},
		Action: func(c *cli.Context) error {
			cfg, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			user, err := findOrCreateUser(c.Context, db, c.String("email"), c.String("name"), c.String("role"), c.Uint("branch-id"))
			if err != nil {
				return err
			}
			token, err := auth.GenerateToken(cfg.JWTSecret, user, c.Duration("ttl"))
			if err != nil {
				return err
			}

			log.Info("token emitido", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
			fmt.Fprintln(c.App.Writer, token)
			return nil
		},
	}
}

func findOrCreateUser(ctx context.Context, db *gorm.DB, email, name, role string, branchID uint) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "no se pudo leer el usuario")
	}
	if role == "" {
		return nil, errors.Errorf("el usuario %s no existe; indica --role para crearlo", email)
	}

	user = models.User{Name: name, Email: email, Role: models.UserRole(role)}
	if user.Name == "" {
		user.Name = email
	}
	switch user.Role {
	case models.RoleSuperAdmin:
	case models.RoleBranchAdmin:
		if branchID == 0 {
			return nil, errors.New("branch_admin requiere --branch-id")
		}
		var branch models.Branch
		if err := db.WithContext(ctx).First(&branch, branchID).Error; err != nil {
			return nil, errors.Wrapf(err, "sucursal %d", branchID)
		}
		user.BranchID = &branch.ID
	default:
		return nil, errors.Errorf("rol %q inválido", role)
	}

	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, errors.Wrap(err, "no se pudo crear el usuario")
	}
	return &user, nil
}
