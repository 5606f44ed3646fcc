// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package battle

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/billions-game/billions/bgn"
	"github.com/billions-game/billions/builtin/params"
	"github.com/billions-game/billions/log"
	"github.com/billions-game/billions/metrics"
	"github.com/billions-game/billions/state"
)

var logger = log.WithContext("pkg", "battle")

var (
	metricBattlesCreated = metrics.LazyLoadCounter("battles_created_count")
	metricEntries        = metrics.LazyLoadCounter("battle_entries_count")
	metricBattlesEnded   = metrics.LazyLoadCounter("battles_ended_count")
	metricReserve        = metrics.LazyLoadGauge("battle_reserve_gauge")
)

// Token is the fungible-token collaborator interface the battle relies on.
// Transfer success/failure is its atomicity signal.
type Token interface {
	Transfer(sender bgn.Address, recipient bgn.Address, amount *big.Int) (bool, error)
	TransferFrom(spender bgn.Address, owner bgn.Address, recipient bgn.Address, amount *big.Int) (bool, error)
	Mint(addr bgn.Address, amount *big.Int) error
}

// Battle implements the contest contract: battle registry, stake ledger,
// eligibility gate and reward distribution.
// Entry fees are custodied under the contract's own token balance.
type Battle struct {
	addr   bgn.Address
	state  *state.State
	token  Token
	params *params.Params
}

// New create a new instance.
func New(addr bgn.Address, state *state.State, token Token, params *params.Params) *Battle {
	return &Battle{addr, state, token, params}
}

// Address returns the contract's own address.
func (b *Battle) Address() bgn.Address {
	return b.addr
}

// atomically runs fn against a checkpoint, reverting every write on failure.
func (b *Battle) atomically(fn func() error) error {
	rev := b.state.NewCheckpoint()
	if err := fn(); err != nil {
		b.state.RevertTo(rev)
		return err
	}
	return nil
}

// Initialize sets the contest owner. It fails if the owner is already set.
func (b *Battle) Initialize(owner bgn.Address) error {
	current, err := b.getAddress(ownerKey)
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return errors.New("already initialized")
	}
	return b.setAddress(ownerKey, owner)
}

// Owner returns the contest owner.
func (b *Battle) Owner() (bgn.Address, error) {
	return b.getAddress(ownerKey)
}

// TransferOwnership hands the contest over to a new owner.
func (b *Battle) TransferOwnership(caller bgn.Address, newOwner bgn.Address) error {
	owner, err := b.Owner()
	if err != nil {
		return err
	}
	if caller != owner {
		return ErrUnauthorized
	}
	if newOwner.IsZero() {
		return errors.New("new owner is zero address")
	}
	return b.atomically(func() error {
		return b.setAddress(ownerKey, newOwner)
	})
}

// AddVerifiedPlayer admits an address to the battle-creator allow-list.
// Owner only; membership is permanent.
func (b *Battle) AddVerifiedPlayer(caller bgn.Address, player bgn.Address) error {
	owner, err := b.Owner()
	if err != nil {
		return err
	}
	if caller != owner {
		return ErrUnauthorized
	}
	return b.atomically(func() error {
		return b.state.EncodeStorage(b.addr, verifiedKey(player), func() ([]byte, error) {
			return []byte{1}, nil
		})
	})
}

// IsVerified returns whether an address is on the creator allow-list.
func (b *Battle) IsVerified(addr bgn.Address) (bool, error) {
	var verified bool
	if err := b.state.DecodeStorage(b.addr, verifiedKey(addr), func(raw []byte) error {
		verified = len(raw) > 0
		return nil
	}); err != nil {
		return false, err
	}
	return verified, nil
}

// mayCreate applies the eligibility gate: open mode admits everyone,
// restricted mode admits only verified players and the owner.
func (b *Battle) mayCreate(caller bgn.Address) (bool, error) {
	restricted, err := b.params.Get(bgn.KeyRestrictedCreation)
	if err != nil {
		return false, err
	}
	if restricted.Sign() == 0 {
		return true, nil
	}
	owner, err := b.Owner()
	if err != nil {
		return false, err
	}
	if caller == owner {
		return true, nil
	}
	return b.IsVerified(caller)
}

// CreateParams carries the battle attributes supplied by the creator.
type CreateParams struct {
	Type      uint32
	Exchange  string
	Country   string
	EntryFee  *big.Int
	NftCount  uint32
	StartTime uint64
	EndTime   uint64
	Label     string
}

// Create allocates the next battle id and stores the record in Betting state.
func (b *Battle) Create(caller bgn.Address, now uint64, p *CreateParams) (uint64, error) {
	ok, err := b.mayCreate(caller)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrUnauthorized
	}
	if p.EndTime <= p.StartTime || p.StartTime <= now {
		return 0, ErrInvalidWindow
	}
	if p.EntryFee != nil && p.EntryFee.Sign() < 0 {
		return 0, errors.New("negative entry fee")
	}

	var id uint64
	if err := b.atomically(func() error {
		cnt, err := b.getUint64(battleCountKey)
		if err != nil {
			return err
		}
		id = cnt + 1

		info := &Info{
			Type:      p.Type,
			Exchange:  p.Exchange,
			Country:   p.Country,
			EntryFee:  p.EntryFee,
			NftCount:  p.NftCount,
			StartTime: p.StartTime,
			EndTime:   p.EndTime,
			Label:     p.Label,
			Creator:   caller,
		}
		if err := b.setInfo(id, info); err != nil {
			return err
		}
		return b.setUint64(battleCountKey, id)
	}); err != nil {
		return 0, err
	}

	logger.Info("battle created",
		"id", id, "creator", caller, "exchange", p.Exchange,
		"start", p.StartTime, "end", p.EndTime)
	metricBattlesCreated().Add(1)
	return id, nil
}

// Count returns the number of battles ever created.
func (b *Battle) Count() (uint64, error) {
	return b.getUint64(battleCountKey)
}

// Get returns the battle record for the given id.
func (b *Battle) Get(id uint64) (*Info, error) {
	info, err := b.getInfo(id)
	if err != nil {
		return nil, err
	}
	if info.IsEmpty() {
		return nil, errors.WithMessagef(ErrNotFound, "battle %d", id)
	}
	return info, nil
}

// Enter records the caller's stake in a battle, collecting the entry fee
// into custody. All-or-nothing: a failed fee transfer records no entry.
func (b *Battle) Enter(caller bgn.Address, now uint64, id uint64, nftIDs []uint64, scalarIDs []uint64, label string) error {
	info, err := b.Get(id)
	if err != nil {
		return err
	}
	if info.StatusAt(now) != StatusBetting {
		return ErrBettingClosed
	}
	existing, err := b.getEntry(id, caller)
	if err != nil {
		return err
	}
	if !existing.IsEmpty() {
		return ErrDuplicateEntry
	}
	if uint32(len(nftIDs)) != info.NftCount {
		return ErrCollateralCountMismatch
	}

	if err := b.atomically(func() error {
		fee := info.entryFee()
		if fee.Sign() > 0 {
			ok, err := b.token.TransferFrom(b.addr, caller, b.addr, fee)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("entry fee transfer failed")
			}
		}

		if err := b.setEntry(id, caller, &PlayerEntry{
			NftIDs:    nftIDs,
			ScalarIDs: scalarIDs,
			Label:     label,
			EnteredAt: now,
			Recorded:  true,
		}); err != nil {
			return err
		}

		cnt, err := b.getUint64(playerCountKey(id))
		if err != nil {
			return err
		}
		if err := b.setUint64(playerCountKey(id), cnt+1); err != nil {
			return err
		}

		info.ContributedFees = new(big.Int).Add(info.contributedFees(), fee)
		if err := b.setInfo(id, info); err != nil {
			return err
		}

		reserve, err := b.getAmount(reserveKey)
		if err != nil {
			return err
		}
		reserve = new(big.Int).Add(reserve, fee)
		if err := b.setAmount(reserveKey, reserve); err != nil {
			return err
		}
		metricReserve().Set(new(big.Int).Div(reserve, bgn.TokenUnit).Int64())
		return nil
	}); err != nil {
		return err
	}

	logger.Debug("player entered", "battle", id, "player", caller, "nfts", len(nftIDs))
	metricEntries().Add(1)
	return nil
}

// Player returns the caller-visible stake entry of (battle, player).
func (b *Battle) Player(id uint64, addr bgn.Address) (*PlayerEntry, error) {
	if _, err := b.Get(id); err != nil {
		return nil, err
	}
	entry, err := b.getEntry(id, addr)
	if err != nil {
		return nil, err
	}
	if entry.IsEmpty() {
		return nil, errors.WithMessagef(ErrNotFound, "player %s in battle %d", addr, id)
	}
	return entry, nil
}

// PlayerCount returns the number of entries recorded for a battle.
func (b *Battle) PlayerCount(id uint64) (uint64, error) {
	return b.getUint64(playerCountKey(id))
}

// PlayerReward returns the reward disbursed to addr in a battle, zero if unranked.
func (b *Battle) PlayerReward(id uint64, addr bgn.Address) (*big.Int, error) {
	rec, err := b.getReward(id, addr)
	if err != nil {
		return nil, err
	}
	return rec.reward(), nil
}

// PlayerBonus returns the bonus disbursed to addr in a battle, zero if unranked.
func (b *Battle) PlayerBonus(id uint64, addr bgn.Address) (*big.Int, error) {
	rec, err := b.getReward(id, addr)
	if err != nil {
		return nil, err
	}
	return rec.bonus(), nil
}

// Reserve returns the pooled, not yet disbursed entry fees.
func (b *Battle) Reserve() (*big.Int, error) {
	return b.getAmount(reserveKey)
}

// bonusMultipliers loads the per-tier bonus table from governance params.
func (b *Battle) bonusMultipliers() ([5]*big.Int, error) {
	var multipliers [5]*big.Int
	for i, key := range bgn.KeyBonusTiers {
		v, err := b.params.Get(key)
		if err != nil {
			return multipliers, err
		}
		multipliers[i] = v
	}
	return multipliers, nil
}

// End finalizes a battle: writes reward records for every ranked player and
// disburses reward plus tier bonus from custody, reconciling the reserve.
// Owner only, irreversible, at most one success per battle.
func (b *Battle) End(caller bgn.Address, now uint64, id uint64, ranked []bgn.Address, rewards []*big.Int) error {
	owner, err := b.Owner()
	if err != nil {
		return err
	}
	if caller != owner {
		return ErrUnauthorized
	}
	info, err := b.Get(id)
	if err != nil {
		return err
	}
	if info.Ended {
		return ErrAlreadyEnded
	}
	if now < info.EndTime {
		return ErrTooEarly
	}
	if len(ranked) != len(rewards) {
		return ErrLengthMismatch
	}

	entrants, err := b.PlayerCount(id)
	if err != nil {
		return err
	}
	multipliers, err := b.bonusMultipliers()
	if err != nil {
		return err
	}
	subsidy, err := b.params.Get(bgn.KeyReserveSubsidy)
	if err != nil {
		return err
	}

	winners := clipRanking(len(ranked), int(entrants))

	// size the payout before writing anything
	totalOut := new(big.Int)
	payouts := make([]*RewardRecord, winners)
	for i := range winners {
		reward := rewards[i]
		if reward == nil {
			reward = &big.Int{}
		}
		bonus := rankBonus(i, int(entrants), info.entryFee(), multipliers)
		payouts[i] = &RewardRecord{Reward: reward, Bonus: bonus}
		totalOut.Add(totalOut, reward)
		totalOut.Add(totalOut, bonus)
	}

	available := new(big.Int).Add(info.contributedFees(), subsidy)
	if totalOut.Cmp(available) > 0 {
		return errors.WithMessagef(ErrInsufficientReserve,
			"payout %v exceeds pool %v", totalOut, available)
	}

	if err := b.atomically(func() error {
		// top up custody when the payout leans on the configured subsidy
		if shortfall := new(big.Int).Sub(totalOut, info.contributedFees()); shortfall.Sign() > 0 {
			if err := b.token.Mint(b.addr, shortfall); err != nil {
				return err
			}
		}

		for i := range winners {
			addr := ranked[i]
			if err := b.setReward(id, addr, payouts[i]); err != nil {
				return err
			}
			amount := new(big.Int).Add(payouts[i].reward(), payouts[i].bonus())
			if amount.Sign() == 0 {
				continue
			}
			ok, err := b.token.Transfer(b.addr, addr, amount)
			if err != nil {
				return err
			}
			if !ok {
				return errors.Errorf("payout transfer to %s failed", addr)
			}
		}

		// only custodied fees leave the reserve; subsidy was minted on top
		feesConsumed := totalOut
		if feesConsumed.Cmp(info.contributedFees()) > 0 {
			feesConsumed = info.contributedFees()
		}
		reserve, err := b.getAmount(reserveKey)
		if err != nil {
			return err
		}
		reserve = new(big.Int).Sub(reserve, feesConsumed)
		if err := b.setAmount(reserveKey, reserve); err != nil {
			return err
		}
		metricReserve().Set(new(big.Int).Div(reserve, bgn.TokenUnit).Int64())

		info.Ended = true
		return b.setInfo(id, info)
	}); err != nil {
		return err
	}

	logger.Info("battle ended", "id", id, "winners", winners, "payout", totalOut)
	metricBattlesEnded().Add(1)
	return nil
}
