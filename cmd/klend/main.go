package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/conf"
	"gopkg.in/yaml.v3"

	"klend-client-sol/internal/config"
	"klend-client-sol/internal/pkg/logger"
	"klend-client-sol/internal/pkg/types"
	"klend-client-sol/internal/signer"
	"klend-client-sol/internal/svc"
)

var rootCmd = &cobra.Command{
	Use:           "klend",
	Short:         "Kamino lending (klend) client",
	Long:          "Build, sign and submit klend instructions, and inspect on-chain lending state.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	flagConfig  string
	flagKeypair string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "f", "etc/klend.yaml", "the config file")
	rootCmd.PersistentFlags().StringVar(&flagKeypair, "keypair", "~/.config/solana/id.json", "fee payer / owner keypair file")
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("panic: %+v\nstack: %s", r, debug.Stack())
			logger.Sync()
			os.Exit(2)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadService 每个子命令独立加载配置与签名者，结束时释放连接
func loadService() (*svc.ServiceContext, error) {
	var c config.ClientConfig
	conf.MustLoad(flagConfig, &c)
	if err := logger.Init(c.Logger.ToLogOption()); err != nil {
		return nil, err
	}
	kp, err := signer.Load(flagKeypair)
	if err != nil {
		return nil, err
	}
	return svc.NewServiceContext(c, kp)
}

// runWithService 包装 RunE：建立上下文、执行、以 YAML 输出结果
func runWithService(fn func(ctx context.Context, s *svc.ServiceContext, args []string) (any, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := loadService()
		if err != nil {
			return err
		}
		defer s.Close()

		out, err := fn(cmd.Context(), s, args)
		if !isNil(out) {
			if encErr := printYAML(out); encErr != nil && err == nil {
				err = encErr
			}
		}
		return err
	}
}

// isNil 失败时操作返回的是 typed nil 指针，不输出
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Slice) && rv.IsNil()
}

func printYAML(v any) error {
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(v)
}

func parsePubkey(name, value string) (types.Pubkey, error) {
	if value == "" {
		return types.Pubkey{}, fmt.Errorf("--%s is required", name)
	}
	pk, err := types.TryPubkeyFromBase58(value)
	if err != nil {
		return types.Pubkey{}, fmt.Errorf("--%s: %w", name, err)
	}
	return pk, nil
}

// parseOptionalPubkey 空字符串表示未提供
func parseOptionalPubkey(name, value string) (types.OptionalPubkey, error) {
	if value == "" {
		return types.Absent(), nil
	}
	pk, err := parsePubkey(name, value)
	if err != nil {
		return types.Absent(), err
	}
	return types.Present(pk), nil
}

func parsePubkeyArgs(args []string) ([]types.Pubkey, error) {
	out := make([]types.Pubkey, 0, len(args))
	for _, a := range args {
		pk, err := types.TryPubkeyFromBase58(a)
		if err != nil {
			return nil, fmt.Errorf("invalid address %q: %w", a, err)
		}
		out = append(out, pk)
	}
	return out, nil
}
