// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/billions-game/billions/bgn"
	"github.com/billions-game/billions/builtin"
	"github.com/billions-game/billions/builtin/battle"
	"github.com/billions-game/billions/node"
	"github.com/billions-game/billions/state"
)

var (
	callerFlag = cli.StringFlag{
		Name:  "caller",
		Usage: "address the operation is issued from",
	}
	battleIDFlag = cli.Uint64Flag{
		Name:  "battle",
		Usage: "battle id",
	}
)

var battleCommand = cli.Command{
	Name:  "battle",
	Usage: "administrate battles against the local state",
	Subcommands: []cli.Command{
		{
			Name:  "create",
			Usage: "create a battle",
			Flags: []cli.Flag{
				dataDirFlag,
				verbosityFlag,
				callerFlag,
				cli.Uint64Flag{Name: "type", Usage: "battle type"},
				cli.StringFlag{Name: "exchange", Usage: "exchange name"},
				cli.StringFlag{Name: "country", Usage: "country code"},
				cli.StringFlag{Name: "entry-fee", Value: "0", Usage: "entry fee in token base units"},
				cli.Uint64Flag{Name: "nft-count", Usage: "required collateral NFT count"},
				cli.Uint64Flag{Name: "start", Usage: "start time (unix)"},
				cli.Uint64Flag{Name: "end", Usage: "end time (unix)"},
				cli.StringFlag{Name: "label", Usage: "free-form label"},
			},
			Action: createBattleAction,
		},
		{
			Name:  "bet",
			Usage: "stake into a battle",
			Flags: []cli.Flag{
				dataDirFlag,
				verbosityFlag,
				callerFlag,
				battleIDFlag,
				cli.StringFlag{Name: "nfts", Usage: "comma separated collateral NFT ids"},
				cli.StringFlag{Name: "scalars", Usage: "comma separated scalar NFT ids"},
				cli.StringFlag{Name: "label", Usage: "free-form label"},
			},
			Action: betBattleAction,
		},
		{
			Name:  "end",
			Usage: "finalize a battle with ranked results",
			Flags: []cli.Flag{
				dataDirFlag,
				verbosityFlag,
				callerFlag,
				battleIDFlag,
				cli.StringFlag{Name: "ranked", Usage: "comma separated ranked addresses, best first"},
				cli.StringFlag{Name: "rewards", Usage: "comma separated per-rank rewards in token base units"},
			},
			Action: endBattleAction,
		},
		{
			Name:  "verify",
			Usage: "admit an address to the battle-creator allow-list",
			Flags: []cli.Flag{
				dataDirFlag,
				verbosityFlag,
				callerFlag,
				cli.StringFlag{Name: "player", Usage: "address to admit"},
			},
			Action: addVerifiedAction,
		},
		{
			Name:   "show",
			Usage:  "print a battle record",
			Flags:  []cli.Flag{dataDirFlag, verbosityFlag, battleIDFlag},
			Action: showBattleAction,
		},
	},
}

func openNode(ctx *cli.Context) *node.Node {
	store := openStore(ctx)
	initGenesis(store)
	return node.New(store)
}

func parseCaller(ctx *cli.Context) bgn.Address {
	addr, err := bgn.ParseAddress(ctx.String(callerFlag.Name))
	if err != nil {
		fatal(fmt.Sprintf("parse caller address: %v", err))
	}
	return addr
}

func parseAmount(s string) *big.Int {
	v, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		fatal(fmt.Sprintf("parse amount [%v]", s))
	}
	return v
}

func parseUint64List(s string) []uint64 {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []uint64
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			fatal(fmt.Sprintf("parse id [%v]: %v", part, err))
		}
		out = append(out, v)
	}
	return out
}

func parseAddressList(s string) []bgn.Address {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []bgn.Address
	for _, part := range strings.Split(s, ",") {
		addr, err := bgn.ParseAddress(strings.TrimSpace(part))
		if err != nil {
			fatal(fmt.Sprintf("parse address [%v]: %v", part, err))
		}
		out = append(out, addr)
	}
	return out
}

func parseAmountList(s string) []*big.Int {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []*big.Int
	for _, part := range strings.Split(s, ",") {
		out = append(out, parseAmount(part))
	}
	return out
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func createBattleAction(ctx *cli.Context) error {
	initLogger(ctx)
	n := openNode(ctx)
	caller := parseCaller(ctx)

	var id uint64
	if err := n.Exec(func(st *state.State) error {
		var err error
		id, err = builtin.Battle.WithState(st).Create(caller, n.Now(), &battle.CreateParams{
			Type:      uint32(ctx.Uint64("type")),
			Exchange:  ctx.String("exchange"),
			Country:   ctx.String("country"),
			EntryFee:  parseAmount(ctx.String("entry-fee")),
			NftCount:  uint32(ctx.Uint64("nft-count")),
			StartTime: ctx.Uint64("start"),
			EndTime:   ctx.Uint64("end"),
			Label:     ctx.String("label"),
		})
		return err
	}); err != nil {
		return err
	}
	printJSON(map[string]uint64{"id": id})
	return nil
}

func betBattleAction(ctx *cli.Context) error {
	initLogger(ctx)
	n := openNode(ctx)
	caller := parseCaller(ctx)

	return n.Exec(func(st *state.State) error {
		return builtin.Battle.WithState(st).Enter(
			caller,
			n.Now(),
			ctx.Uint64(battleIDFlag.Name),
			parseUint64List(ctx.String("nfts")),
			parseUint64List(ctx.String("scalars")),
			ctx.String("label"),
		)
	})
}

func endBattleAction(ctx *cli.Context) error {
	initLogger(ctx)
	n := openNode(ctx)
	caller := parseCaller(ctx)

	return n.Exec(func(st *state.State) error {
		return builtin.Battle.WithState(st).End(
			caller,
			n.Now(),
			ctx.Uint64(battleIDFlag.Name),
			parseAddressList(ctx.String("ranked")),
			parseAmountList(ctx.String("rewards")),
		)
	})
}

func addVerifiedAction(ctx *cli.Context) error {
	initLogger(ctx)
	n := openNode(ctx)
	caller := parseCaller(ctx)

	player, err := bgn.ParseAddress(ctx.String("player"))
	if err != nil {
		fatal(fmt.Sprintf("parse player address: %v", err))
	}
	return n.Exec(func(st *state.State) error {
		return builtin.Battle.WithState(st).AddVerifiedPlayer(caller, player)
	})
}

func showBattleAction(ctx *cli.Context) error {
	initLogger(ctx)
	n := openNode(ctx)
	id := ctx.Uint64(battleIDFlag.Name)

	return n.Read(func(st *state.State) error {
		contract := builtin.Battle.WithState(st)
		info, err := contract.Get(id)
		if err != nil {
			return err
		}
		cnt, err := contract.PlayerCount(id)
		if err != nil {
			return err
		}
		printJSON(map[string]any{
			"id":          id,
			"exchange":    info.Exchange,
			"country":     info.Country,
			"entryFee":    info.EntryFee,
			"nftCount":    info.NftCount,
			"startTime":   info.StartTime,
			"endTime":     info.EndTime,
			"label":       info.Label,
			"creator":     info.Creator.String(),
			"status":      info.StatusAt(n.Now()).String(),
			"playerCount": cnt,
		})
		return nil
	})
}
