// admin 运维命令：演示数据、API Key、后台用户、级联删除
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"

	"brickandmortr_server/internal/api/dto"
	"brickandmortr_server/internal/config"
	"brickandmortr_server/internal/model"
	"brickandmortr_server/internal/repository"
	"brickandmortr_server/internal/service"
	"brickandmortr_server/pkg/database"
	pkglogger "brickandmortr_server/pkg/logger"
)

// services 命令行用到的服务
type services struct {
	Seed     *service.SeedService
	APIKey   *service.APIKeyService
	User     *service.UserService
	Catalog  *service.CatalogService
	Store    *service.StoreService
	Designer *service.DesignerService
}

func main() {
	app := newApp(initServices)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initServices 读配置、连数据库并组装服务
func initServices() (*services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if _, err := pkglogger.Init(cfg.Env); err != nil {
		return nil, err
	}

	db, err := database.InitDB(database.Options{
		Driver:   cfg.DBDriver,
		DSN:      cfg.DBDSN,
		LogLevel: logger.Warn,
	}, model.All()...)
	if err != nil {
		return nil, err
	}

	storeRepo := repository.NewStoreRepository(db)
	designerRepo := repository.NewDesignerRepository(db)
	subCategoryRepo := repository.NewSubCategoryRepository(db)
	itemRepo := repository.NewItemRepository(db)

	return &services{
		Seed:     service.NewSeedService(storeRepo, designerRepo, subCategoryRepo, itemRepo),
		APIKey:   service.NewAPIKeyService(repository.NewAPIKeyRepository(db), 0),
		User:     service.NewUserService(repository.NewUserRepository(db)),
		Catalog:  service.NewCatalogService(itemRepo, subCategoryRepo),
		Store:    service.NewStoreService(storeRepo, itemRepo),
		Designer: service.NewDesignerService(designerRepo, storeRepo, itemRepo),
	}, nil
}

// newApp 组装命令；boot 延迟到具体命令执行时才调用
func newApp(boot func() (*services, error)) *cli.App {
	var svc *services
	withServices := func(action func(c *cli.Context, svc *services) error) cli.ActionFunc {
		return func(c *cli.Context) error {
			if svc == nil {
				s, err := boot()
				if err != nil {
					return err
				}
				svc = s
			}
			return action(c, svc)
		}
	}

	countFlag := &cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: 10, Usage: "生成数量"}

	return &cli.App{
		Name:  "admin",
		Usage: "brick&mortr 运维命令",
		Commands: []*cli.Command{
			// ==================== 演示数据 ====================
			{
				Name:  "seed",
				Usage: "生成演示数据",
				Subcommands: []*cli.Command{
					{
						Name:  "stores",
						Flags: []cli.Flag{countFlag},
						Action: withServices(func(c *cli.Context, svc *services) error {
							n, err := svc.Seed.SeedStores(c.Context, c.Int("count"))
							if err != nil {
								return err
							}
							fmt.Fprintf(c.App.Writer, "created %d stores\n", n)
							return nil
						}),
					},
					{
						Name:  "designers",
						Flags: []cli.Flag{countFlag},
						Action: withServices(func(c *cli.Context, svc *services) error {
							n, err := svc.Seed.SeedDesigners(c.Context, c.Int("count"))
							if err != nil {
								return err
							}
							fmt.Fprintf(c.App.Writer, "created %d designers\n", n)
							return nil
						}),
					},
					{
						Name: "items",
						Flags: []cli.Flag{
							countFlag,
							&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Required: true, Usage: "c | s | b | a"},
						},
						Action: withServices(func(c *cli.Context, svc *services) error {
							n, err := svc.Seed.SeedItems(c.Context, model.ClothingCategory(c.String("category")), c.Int("count"))
							if err != nil {
								return err
							}
							fmt.Fprintf(c.App.Writer, "created %d items\n", n)
							return nil
						}),
					},
				},
			},
			// ==================== API Key ====================
			{
				Name:  "apikey",
				Usage: "管理客户端 API Key",
				Subcommands: []*cli.Command{
					{
						Name:      "create",
						ArgsUsage: "<name>",
						Action: withServices(func(c *cli.Context, svc *services) error {
							raw, key, err := svc.APIKey.Create(c.Context, c.Args().First())
							if err != nil {
								return err
							}
							fmt.Fprintf(c.App.Writer, "%s (prefix %s): %s\n", key.Name, key.Prefix, raw)
							return nil
						}),
					},
					{
						Name:      "revoke",
						ArgsUsage: "<prefix>",
						Action: withServices(func(c *cli.Context, svc *services) error {
							return svc.APIKey.Revoke(c.Context, c.Args().First())
						}),
					},
					{
						Name: "list",
						Action: withServices(func(c *cli.Context, svc *services) error {
							keys, err := svc.APIKey.List(c.Context)
							if err != nil {
								return err
							}
							for _, k := range keys {
								fmt.Fprintf(c.App.Writer, "%s\t%s\trevoked=%t\n", k.Prefix, k.Name, k.Revoked)
							}
							return nil
						}),
					},
				},
			},
			// ==================== 用户 ====================
			{
				Name:  "user",
				Usage: "管理用户",
				Subcommands: []*cli.Command{
					{
						Name: "create",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "username", Required: true},
							&cli.StringFlag{Name: "password", Required: true},
							&cli.StringFlag{Name: "name"},
							&cli.BoolFlag{Name: "staff"},
						},
						Action: withServices(func(c *cli.Context, svc *services) error {
							req := &dto.CreateUserRequest{
								Name:     c.String("name"),
								Username: c.String("username"),
								Password: c.String("password"),
							}
							create := svc.User.CreateUser
							if c.Bool("staff") {
								create = svc.User.CreateStaffUser
							}
							user, err := create(c.Context, req)
							if err != nil {
								return err
							}
							fmt.Fprintf(c.App.Writer, "created user %d (%s)\n", user.ID, user.Username)
							return nil
						}),
					},
				},
			},
			// ==================== 目录维护 ====================
			{
				Name:  "catalog",
				Usage: "删除店铺 / 设计师 / 子分类（级联）",
				Subcommands: []*cli.Command{
					{
						Name:      "delete-store",
						ArgsUsage: "<id>",
						Action: withServices(func(c *cli.Context, svc *services) error {
							id, err := idArg(c)
							if err != nil {
								return err
							}
							return svc.Store.DeleteStore(c.Context, id)
						}),
					},
					{
						Name:      "delete-designer",
						ArgsUsage: "<id>",
						Action: withServices(func(c *cli.Context, svc *services) error {
							id, err := idArg(c)
							if err != nil {
								return err
							}
							return svc.Designer.DeleteDesigner(c.Context, id)
						}),
					},
					{
						Name:      "delete-subcategory",
						ArgsUsage: "<id>",
						Action: withServices(func(c *cli.Context, svc *services) error {
							id, err := idArg(c)
							if err != nil {
								return err
							}
							return svc.Catalog.DeleteSubCategory(c.Context, id)
						}),
					},
				},
			},
		},
		After: func(c *cli.Context) error {
			_ = zap.L().Sync()
			return nil
		},
	}
}

func idArg(c *cli.Context) (int64, error) {
	var id int64
	if _, err := fmt.Sscan(c.Args().First(), &id); err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", c.Args().First())
	}
	return id, nil
}
