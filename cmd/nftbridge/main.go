// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/common/hexutil"
	"github.com/luxfi/nftbridge"
	"github.com/luxfi/nftbridge/custody"
	"github.com/luxfi/nftbridge/relayer"
	"github.com/luxfi/nftbridge/relayer/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "nftbridge",
	Short: "Cross-chain NFT bridge CLI",
	Long: `nftbridge moves non-fungible tokens between chains over an
authenticated messaging framework.

This CLI provides tools for encoding and decoding transfer payloads and for
running an in-process demo transfer.`,
	Version: fmt.Sprintf("%s (built %s)", version, buildDate),
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(demoCmd)

	encodeCmd.Flags().String("recipient", "", "Recipient address (0x-prefixed hex, up to 32 bytes)")
	encodeCmd.Flags().String("token-id", "0", "Token ID (decimal)")
	encodeCmd.Flags().String("token-uri", "", "Token URI")

	demoCmd.Flags().AddFlagSet(config.BuildFlagSet())
}

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode a transfer payload",
	RunE: func(cmd *cobra.Command, _ []string) error {
		recipientHex, _ := cmd.Flags().GetString("recipient")
		tokenIDStr, _ := cmd.Flags().GetString("token-id")
		tokenURI, _ := cmd.Flags().GetString("token-uri")

		recipient, err := nftbridge.AddressFromHex(recipientHex)
		if err != nil {
			return fmt.Errorf("invalid recipient: %w", err)
		}
		tokenID, err := uint256.FromDecimal(tokenIDStr)
		if err != nil {
			return fmt.Errorf("invalid token ID: %w", err)
		}

		payload := nftbridge.TransferMessage{
			Recipient: recipient,
			TokenID:   tokenID,
			TokenURI:  tokenURI,
		}.Bytes()
		fmt.Println(hexutil.Encode(payload))
		return nil
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode <payload-hex>",
	Short: "Decode a transfer payload",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		payload, err := hexutil.Decode(args[0])
		if err != nil {
			return fmt.Errorf("invalid payload hex: %w", err)
		}
		msg, err := nftbridge.ParseTransferMessage(payload)
		if err != nil {
			return err
		}
		fmt.Printf("Recipient: %s\n", msg.Recipient)
		fmt.Printf("Token ID:  %s\n", msg.TokenID)
		fmt.Printf("Token URI: %s\n", msg.TokenURI)
		return nil
	},
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run an in-process transfer between two domains",
	Long: `demo stands up two routers on domains 1 and 2 connected by an
in-process relayer, locks a token on domain 1, and mints its synthetic twin
on domain 2.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		v, err := config.BuildViper(cmd.Flags())
		if err != nil {
			return err
		}
		cfg, err := config.NewConfig(v)
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg.LogLevel)
		if err != nil {
			return err
		}
		defer logger.Sync()
		return runDemo(cmd.Context(), cfg, logger)
	},
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	return zapCfg.Build()
}

const (
	originDomain uint32 = 1
	remoteDomain uint32 = 2
)

func runDemo(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	registry := prometheus.NewRegistry()
	rel := relayer.New(relayer.Config{
		QueueSize:       cfg.QueueSize,
		MaxRetryElapsed: cfg.MaxRetryElapsed,
		SeenCacheSize:   cfg.SeenCacheSize,
		Logger:          logger.Named("relayer"),
		Metrics:         relayer.NewMetrics(registry),
	})

	originRouterAddr, err := nftbridge.AddressFromHex("0x0a")
	if err != nil {
		return err
	}
	remoteRouterAddr, err := nftbridge.AddressFromHex("0x0b")
	if err != nil {
		return err
	}
	originMailbox, err := rel.Register(originDomain, originRouterAddr)
	if err != nil {
		return err
	}
	remoteMailbox, err := rel.Register(remoteDomain, remoteRouterAddr)
	if err != nil {
		return err
	}

	// Domain 1 locks collateral in escrow; domain 2 mints synthetics.
	originCollection := custody.NewCollection()
	escrowAccount := common.HexToAddress("0x00000000000000000000000000000000000000ee")
	emitter := nftbridge.NewChannelEmitter(16)

	originRouter := nftbridge.NewRouter(nftbridge.RouterConfig{
		Domain:  originDomain,
		Mailbox: originMailbox,
		Custody: custody.NewEscrow(originCollection, escrowAccount),
		Logger:  logger.Named("origin"),
		Emitter: emitter,
	})
	remoteRouter := nftbridge.NewRouter(nftbridge.RouterConfig{
		Domain:  remoteDomain,
		Mailbox: remoteMailbox,
		Custody: custody.NewMintBurn(custody.NewCollection()),
		Logger:  logger.Named("remote"),
		Emitter: emitter,
	})
	originRouter.EnrollRemoteRouter(remoteDomain, remoteRouterAddr)
	remoteRouter.EnrollRemoteRouter(originDomain, originRouterAddr)
	if err := rel.AttachHandler(originDomain, originRouter); err != nil {
		return err
	}
	if err := rel.AttachHandler(remoteDomain, remoteRouter); err != nil {
		return err
	}

	alice := common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob := common.HexToAddress("0x00000000000000000000000000000000000000b0")
	tokenID := uint256.NewInt(42)
	tokenURI := "ipfs://Qm123"
	if err := originCollection.Mint(alice, tokenID, tokenURI); err != nil {
		return err
	}

	receipt, err := originRouter.TransferRemote(
		ctx, remoteDomain, alice, nftbridge.AddressFromNative(bob), tokenID, tokenURI, nil)
	if err != nil {
		return err
	}
	fmt.Printf("Dispatched message %s to domain %d\n", receipt.ID, receipt.Destination)

	rel.DeliverPending(ctx)

	select {
	case ev := <-emitter.Received():
		fmt.Printf("Domain %d credited token %s to %s\n", remoteDomain, ev.TokenID, ev.Recipient.Native())
	default:
		return fmt.Errorf("transfer was not delivered")
	}
	return nil
}
