package server

import (
	"fmt"
	"time"

	"github.com/coder/quartz"

	"github.com/sgmahjong/server/internal/game"
	"github.com/sgmahjong/server/mahjong"
)

// claimOffer is the set of claims one seat may make on the tile in play.
type claimOffer struct {
	win  bool
	kong bool
	pong bool
	chi  [][]mahjong.Tile
}

func (o claimOffer) any() bool {
	return o.win || o.kong || o.pong || len(o.chi) > 0
}

type claimResponse struct {
	action   ActionType
	chiIndex int
	auto     bool // auto-resolved (bot, no claim, timeout, disconnect)
}

// claimWindow tracks one contested tile: a discard up for grabs, or a
// promoted kong tile that can be robbed (robbed != nil). The discarder
// field holds the kong declarer in the robbed case.
type claimWindow struct {
	id        int
	discarder int
	tile      mahjong.Tile
	robbed    *mahjong.SelfKong
	offers    [game.SeatCount]claimOffer
	responses [game.SeatCount]*claimResponse
	timer     *quartz.Timer
}

func (r *Room) handleStartGame(i int) {
	if r.state != nil || i != r.host {
		return
	}
	for j := range r.players {
		if j == i || r.players[j] == nil || r.players[j].IsBot() {
			continue
		}
		if !r.seats[j].ready {
			r.sendError(i, "Not all players are ready")
			return
		}
	}
	for j := range r.players {
		if r.players[j] == nil {
			r.players[j] = &game.Player{
				Name:   botNames[j],
				Avatar: botAvatar,
				Status: game.StatusBot,
			}
		}
	}
	r.state = game.NewState(r.players, r.rng)
	r.logger.Info("Game started", "host", i)
	r.startHand()
}

func (r *Room) startHand() {
	r.lastDealer = r.state.DealerIndex()
	r.lastWinner = -1
	r.mustDiscard = false
	if !r.state.StartHand() {
		// Wall ran out while replacing bonuses during the deal.
		r.endRoundDraw()
		return
	}
	r.logger.Info("Hand dealt",
		"dealer", r.lastDealer,
		"roundWind", r.state.RoundWind,
		"roundNumber", r.state.RoundNumber)
	for j := range r.seats {
		r.sendTo(j, MessageTypeGameStart, GameStartData{State: ProjectGameState(r.state, j)})
	}
	r.beginTurn()
}

// beginTurn hands the turn to whoever is current: humans get a prompt,
// bot-driven seats get a delayed tick.
func (r *Room) beginTurn() {
	i := r.state.Current
	if r.players[i].Connected() {
		r.promptTurn(i)
	} else {
		r.scheduleBot()
	}
}

func (r *Room) promptTurn(i int) {
	if r.state.NeedsDraw(i) {
		r.sendTo(i, MessageTypeYourTurn, YourTurnData{
			Phase:            TurnPhaseDraw,
			AvailableActions: []ActionType{ActionDraw},
		})
		return
	}
	r.promptDiscard(i)
}

// promptDiscard asks a human holding a full hand to act. After a pong or
// chi the only move is the discard itself; otherwise self-draw win and
// self-kong are offered when legal.
func (r *Room) promptDiscard(i int) {
	actions := []ActionType{ActionDiscard}
	if !r.mustDiscard {
		p := r.players[i]
		if mahjong.CheckWin(p.Hand, p.Melds) {
			actions = append(actions, ActionWin)
		}
		if len(mahjong.SelfKongs(p.Hand, p.Melds)) > 0 {
			actions = append(actions, ActionKong)
		}
	}
	r.sendTo(i, MessageTypeYourTurn, YourTurnData{
		Phase:            TurnPhaseDiscard,
		AvailableActions: actions,
	})
}

func (r *Room) scheduleBot() {
	r.botGen++
	gen := r.botGen
	if r.botTimer != nil {
		r.botTimer.Stop()
	}
	r.botTimer = r.clock.AfterFunc(r.cfg.BotDelay, func() {
		r.post(evBotTick{gen: gen})
	})
}

func (r *Room) handleBotTick(gen int) {
	if gen != r.botGen || r.state == nil || r.state.Phase != game.PhasePlaying || r.claim != nil {
		return
	}
	r.botStep()
}

// botStep takes one full turn for the current seat: draw if needed, then
// win, self-kong or discard per policy. Also used to act immediately for
// a player who disconnected while holding the turn.
func (r *Room) botStep() {
	i := r.state.Current
	p := r.players[i]
	if r.state.NeedsDraw(i) {
		t, ok := r.state.Draw(i)
		if !ok {
			r.endRoundDraw()
			return
		}
		r.logger.Debug("Drew tile", "seat", i, "tile", t, "wall", r.state.Wall.Remaining())
		r.broadcastGameState()
	}
	if !r.mustDiscard {
		if mahjong.CheckWin(p.Hand, p.Melds) {
			res := r.scoreTai(i, nil, true)
			if res.Raw() >= r.cfg.MinTai {
				r.endRoundWin(i, -1, true, res)
				return
			}
		}
		if sks := mahjong.SelfKongs(p.Hand, p.Melds); len(sks) > 0 {
			r.doSelfKong(i, sks[0])
			return
		}
	}
	r.doDiscard(i, r.bot.ChooseDiscard(p).ID)
}

func (r *Room) handleAction(i int, a ActionData) {
	if r.state == nil || r.state.Phase != game.PhasePlaying {
		return
	}
	if r.claim != nil {
		r.handleClaimAction(i, a)
		return
	}
	if r.state.Current != i {
		return
	}
	switch a.Action {
	case ActionDraw:
		r.doDraw(i)
	case ActionDiscard:
		if a.TileID == nil {
			return
		}
		r.doDiscard(i, *a.TileID)
	case ActionKong:
		if r.mustDiscard {
			return
		}
		if sk, ok := r.pickSelfKong(i, a.TileID); ok {
			r.doSelfKong(i, sk)
		}
	case ActionWin:
		if r.mustDiscard {
			return
		}
		r.declareSelfWin(i)
	}
}

// pickSelfKong resolves which of the player's legal self-kongs an action
// refers to. A tile id selects by definition; without one the first
// (promotions sort first) is taken.
func (r *Room) pickSelfKong(i int, tileID *int) (mahjong.SelfKong, bool) {
	p := r.players[i]
	sks := mahjong.SelfKongs(p.Hand, p.Melds)
	if len(sks) == 0 {
		return mahjong.SelfKong{}, false
	}
	if tileID == nil {
		return sks[0], true
	}
	idx := mahjong.FindTile(p.Hand, *tileID)
	if idx < 0 {
		return mahjong.SelfKong{}, false
	}
	def := p.Hand[idx].TileDef
	for _, sk := range sks {
		if sk.Def == def {
			return sk, true
		}
	}
	return mahjong.SelfKong{}, false
}

func (r *Room) doDraw(i int) {
	if !r.state.NeedsDraw(i) {
		return
	}
	t, ok := r.state.Draw(i)
	if !ok {
		r.endRoundDraw()
		return
	}
	r.logger.Debug("Drew tile", "seat", i, "tile", t, "wall", r.state.Wall.Remaining())
	r.broadcastGameState()
	r.promptDiscard(i)
}

func (r *Room) doDiscard(i, tileID int) {
	if r.state.NeedsDraw(i) {
		return
	}
	if !r.state.Discard(i, tileID) {
		return
	}
	r.mustDiscard = false
	t := *r.state.LastDiscard
	r.logger.Debug("Discarded", "seat", i, "tile", t)
	r.broadcastGameState()
	r.openClaimWindow(i, t)
}

func (r *Room) declareSelfWin(i int) {
	p := r.players[i]
	if !mahjong.CheckWin(p.Hand, p.Melds) {
		return
	}
	res := r.scoreTai(i, nil, true)
	if res.Raw() < r.cfg.MinTai {
		r.sendError(i, "Not enough tai to win!")
		return
	}
	r.logger.Info("Self-draw win", "seat", i, "tai", res.Tai)
	r.endRoundWin(i, -1, true, res)
}

// doSelfKong commits a concealed kong directly. A promotion first opens
// a robbing window; the kong completes only if every potential robber
// passes.
func (r *Room) doSelfKong(i int, sk mahjong.SelfKong) {
	if sk.Promote {
		r.openRobWindow(i, sk)
		return
	}
	r.completeSelfKong(i, sk)
}

func (r *Room) completeSelfKong(i int, sk mahjong.SelfKong) {
	if !r.state.ApplySelfKong(i, sk) {
		return
	}
	r.logger.Info("Self-kong", "seat", i, "tile", sk.Def, "promoted", sk.Promote)
	if _, ok := r.state.DrawReplacement(i); !ok {
		r.endRoundDraw()
		return
	}
	r.broadcastGameState()
	r.afterKong(i)
}

// afterKong re-enters the post-draw decision: the replacement tile may
// complete a win or another kong.
func (r *Room) afterKong(i int) {
	if r.players[i].Connected() {
		r.promptDiscard(i)
	} else {
		r.scheduleBot()
	}
}

func (r *Room) openClaimWindow(discarder int, t mahjong.Tile) {
	r.botGen++
	r.windowID++
	w := &claimWindow{id: r.windowID, discarder: discarder, tile: t}
	w.responses[discarder] = &claimResponse{action: ActionPass, auto: true}
	for j := range r.players {
		if j == discarder {
			continue
		}
		p := r.players[j]
		var o claimOffer
		if mahjong.CheckWinWithTile(p.Hand, p.Melds, t) {
			o.win = true
		}
		if _, ok := mahjong.CanKong(p.Hand, t.TileDef); ok {
			o.kong = true
		}
		if _, ok := mahjong.CanPong(p.Hand, t.TileDef); ok {
			o.pong = true
		}
		o.chi = mahjong.ChiOptions(p.Hand, t.TileDef, j, discarder)
		w.offers[j] = o
	}
	r.runClaimWindow(w)
}

// openRobWindow offers the tile of a pending kong promotion as a win to
// everyone else before the kong commits.
func (r *Room) openRobWindow(kongSeat int, sk mahjong.SelfKong) {
	tile := sk.Tiles[0]
	r.botGen++
	r.windowID++
	w := &claimWindow{id: r.windowID, discarder: kongSeat, tile: tile, robbed: &sk}
	w.responses[kongSeat] = &claimResponse{action: ActionPass, auto: true}
	for j := range r.players {
		if j == kongSeat {
			continue
		}
		p := r.players[j]
		if mahjong.CheckWinWithTile(p.Hand, p.Melds, tile) {
			w.offers[j] = claimOffer{win: true}
		}
	}
	r.runClaimWindow(w)
}

// runClaimWindow fills in every response it can resolve on its own and
// either settles the window immediately or arms the timeout for the
// humans still owed an answer.
func (r *Room) runClaimWindow(w *claimWindow) {
	claimable := false
	for j := range r.players {
		if w.offers[j].any() {
			claimable = true
			break
		}
	}
	if !claimable {
		r.settleUnclaimed(w)
		return
	}

	r.claim = w
	for j := range r.players {
		if w.responses[j] != nil {
			continue
		}
		if !w.offers[j].any() {
			w.responses[j] = &claimResponse{action: ActionPass, auto: true}
			continue
		}
		switch {
		case r.players[j].Connected():
			r.sendClaimWindow(j, w)
		case r.players[j].IsBot():
			w.responses[j] = r.botClaimResponse(j, w)
		default:
			// In the disconnect grace: hold the seat to a pass, which
			// reconnectSeat undoes if the window is still open.
			w.responses[j] = &claimResponse{action: ActionPass, auto: true}
		}
	}
	if r.claimComplete(w) {
		r.resolveClaims()
		return
	}
	id := w.id
	w.timer = r.clock.AfterFunc(r.cfg.ClaimWindow, func() {
		r.post(evClaimTimeout{windowID: id})
	})
}

// settleUnclaimed is the fast path when nobody can touch the tile.
func (r *Room) settleUnclaimed(w *claimWindow) {
	if w.robbed != nil {
		r.completeSelfKong(w.discarder, *w.robbed)
		return
	}
	r.state.AdvanceTurn()
	r.broadcastGameState()
	r.beginTurn()
}

func (r *Room) sendClaimWindow(j int, w *claimWindow) {
	o := w.offers[j]
	var actions []ActionType
	if o.win {
		actions = append(actions, ActionWin)
	}
	if o.kong {
		actions = append(actions, ActionKong)
	}
	if o.pong {
		actions = append(actions, ActionPong)
	}
	if len(o.chi) > 0 {
		actions = append(actions, ActionChi)
	}
	actions = append(actions, ActionPass)
	r.sendTo(j, MessageTypeClaimWindow, ClaimWindowData{
		Timeout:          int(r.cfg.ClaimWindow / time.Second),
		AvailableActions: actions,
	})
}

// botClaimResponse applies the bot policy to an open window. Wins are
// only declared when they clear the minimum tai; a kong is always taken
// for its replacement draw.
func (r *Room) botClaimResponse(j int, w *claimWindow) *claimResponse {
	o := w.offers[j]
	if o.win && r.scoreTai(j, &w.tile, false).Raw() >= r.cfg.MinTai {
		return &claimResponse{action: ActionWin, auto: true}
	}
	if o.kong {
		return &claimResponse{action: ActionKong, auto: true}
	}
	if o.pong && r.bot.WantsPong(r.players[j], w.tile.TileDef) {
		return &claimResponse{action: ActionPong, auto: true}
	}
	if len(o.chi) > 0 && r.bot.WantsChi() {
		return &claimResponse{action: ActionChi, auto: true}
	}
	return &claimResponse{action: ActionPass, auto: true}
}

func (r *Room) handleClaimAction(i int, a ActionData) {
	w := r.claim
	o := w.offers[i]
	if !o.any() || w.responses[i] != nil {
		return
	}
	resp := &claimResponse{action: a.Action}
	switch a.Action {
	case ActionWin:
		if !o.win {
			return
		}
	case ActionKong:
		if !o.kong {
			return
		}
	case ActionPong:
		if !o.pong {
			return
		}
	case ActionChi:
		switch {
		case len(o.chi) == 0:
			return
		case len(o.chi) == 1:
			resp.chiIndex = 0
		case a.ChiIndex != nil && *a.ChiIndex >= 0 && *a.ChiIndex < len(o.chi):
			resp.chiIndex = *a.ChiIndex
		default:
			// Ambiguous request: show the shapes and wait for a pick.
			r.sendTo(i, MessageTypeChiOptions, ChiOptionsData{Options: o.chi})
			return
		}
	case ActionPass:
	default:
		return
	}
	w.responses[i] = resp
	if r.claimComplete(w) {
		r.resolveClaims()
	}
}

func (r *Room) claimComplete(w *claimWindow) bool {
	for j := range w.responses {
		if w.responses[j] == nil {
			return false
		}
	}
	return true
}

func (r *Room) handleClaimTimeout(id int) {
	w := r.claim
	if w == nil || w.id != id {
		return
	}
	for j := range w.responses {
		if w.responses[j] == nil {
			w.responses[j] = &claimResponse{action: ActionPass, auto: true}
		}
	}
	r.resolveClaims()
}

// resolveClaims settles a full window by priority: win beats kong beats
// pong beats chi, and competing wins go to the seat closest after the
// discarder. An under-tai win is skipped with an error and the next
// candidate considered.
func (r *Room) resolveClaims() {
	w := r.claim
	r.claim = nil
	if w.timer != nil {
		w.timer.Stop()
	}

	for d := 1; d < game.SeatCount; d++ {
		j := (w.discarder + d) % game.SeatCount
		resp := w.responses[j]
		if resp == nil || resp.action != ActionWin {
			continue
		}
		res := r.scoreTai(j, &w.tile, false)
		if res.Raw() < r.cfg.MinTai {
			r.sendError(j, "Not enough tai to win!")
			continue
		}
		if w.robbed != nil {
			if !r.state.TakeRobbedTile(j, w.discarder, w.tile.ID) {
				continue
			}
			r.logger.Info("Robbed the kong", "seat", j, "from", w.discarder, "tile", w.tile, "tai", res.Tai)
		} else {
			if !r.state.TakeDiscardForWin(j) {
				continue
			}
			r.logger.Info("Won on discard", "seat", j, "from", w.discarder, "tile", w.tile, "tai", res.Tai)
		}
		r.endRoundWin(j, w.discarder, false, res)
		return
	}

	if w.robbed != nil {
		// Nobody robbed it; the kong stands.
		r.completeSelfKong(w.discarder, *w.robbed)
		return
	}

	for d := 1; d < game.SeatCount; d++ {
		j := (w.discarder + d) % game.SeatCount
		if resp := w.responses[j]; resp != nil && resp.action == ActionKong {
			r.executeClaimKong(j)
			return
		}
	}
	for d := 1; d < game.SeatCount; d++ {
		j := (w.discarder + d) % game.SeatCount
		if resp := w.responses[j]; resp != nil && resp.action == ActionPong {
			r.executeClaimPong(j)
			return
		}
	}
	for d := 1; d < game.SeatCount; d++ {
		j := (w.discarder + d) % game.SeatCount
		if resp := w.responses[j]; resp != nil && resp.action == ActionChi {
			r.executeClaimChi(j, w.offers[j].chi, resp.chiIndex)
			return
		}
	}

	r.state.AdvanceTurn()
	r.broadcastGameState()
	r.beginTurn()
}

func (r *Room) executeClaimKong(j int) {
	if !r.state.ClaimKong(j) {
		return
	}
	r.logger.Info("Kong claimed", "seat", j)
	if _, ok := r.state.DrawReplacement(j); !ok {
		r.endRoundDraw()
		return
	}
	r.broadcastGameState()
	r.afterKong(j)
}

func (r *Room) executeClaimPong(j int) {
	if !r.state.ClaimPong(j) {
		return
	}
	r.logger.Info("Pong claimed", "seat", j)
	r.mustDiscard = true
	r.broadcastGameState()
	r.continueAfterClaim(j)
}

func (r *Room) executeClaimChi(j int, options [][]mahjong.Tile, idx int) {
	if idx < 0 || idx >= len(options) {
		return
	}
	if !r.state.ClaimChi(j, options[idx]) {
		return
	}
	r.logger.Info("Chi claimed", "seat", j)
	r.mustDiscard = true
	r.broadcastGameState()
	r.continueAfterClaim(j)
}

func (r *Room) continueAfterClaim(j int) {
	if r.players[j].Connected() {
		r.promptDiscard(j)
	} else {
		r.scheduleBot()
	}
}

func (r *Room) scoreTai(i int, extra *mahjong.Tile, selfDraw bool) mahjong.TaiResult {
	p := r.players[i]
	hand := p.Hand
	if extra != nil {
		hand = make([]mahjong.Tile, 0, len(p.Hand)+1)
		hand = append(hand, p.Hand...)
		hand = append(hand, *extra)
	}
	return mahjong.CalculateTai(hand, p.Melds, p.Bonuses, p.SeatWind, r.state.RoundWind, selfDraw)
}

func (r *Room) endRoundWin(winner, shooter int, selfDraw bool, res mahjong.TaiResult) {
	pay := mahjong.CalculatePayments(winner, shooter, selfDraw, res.BasePoints)
	for _, pp := range pay.Payments {
		r.players[pp.PlayerIndex].Score += pp.Amount
	}
	r.state.Phase = game.PhaseFinished
	r.lastWinner = winner
	r.stopTurnTimers()

	msg := fmt.Sprintf("%s wins with %d tai", r.players[winner].Name, res.Tai)
	if selfDraw {
		msg += " (self-draw)"
	}
	r.logger.Info("Round over", "winner", winner, "tai", res.Tai, "basePoints", res.BasePoints, "selfDraw", selfDraw)
	r.broadcastGameState()
	r.broadcastRoundOver(RoundOverData{
		WinnerIndex:   &winner,
		TaiResult:     &res,
		PaymentResult: &pay,
		Message:       msg,
	})
}

func (r *Room) endRoundDraw() {
	r.state.Phase = game.PhaseFinished
	r.lastWinner = -1
	r.stopTurnTimers()
	r.logger.Info("Round over", "winner", -1, "reason", "wall exhausted")
	r.broadcastGameState()
	r.broadcastRoundOver(RoundOverData{Message: "Draw - wall exhausted"})
}

func (r *Room) stopTurnTimers() {
	r.botGen++
	if r.botTimer != nil {
		r.botTimer.Stop()
		r.botTimer = nil
	}
	if r.claim != nil {
		if r.claim.timer != nil {
			r.claim.timer.Stop()
		}
		r.claim = nil
	}
}

func (r *Room) broadcastRoundOver(data RoundOverData) {
	for j := range r.seats {
		r.sendTo(j, MessageTypeRoundOver, data)
	}
}

// handleNextRound deals the following hand. The dealer stays when they
// won; any other outcome, a draw included, rotates the seats.
func (r *Room) handleNextRound(i int) {
	if r.state == nil || r.state.Phase != game.PhaseFinished {
		return
	}
	if r.lastWinner < 0 || r.lastWinner != r.lastDealer {
		r.state.Rotate()
	}
	r.logger.Info("Next round requested", "seat", i)
	r.startHand()
}
