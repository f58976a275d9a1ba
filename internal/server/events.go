package server

import (
	"context"
	"encoding/json"
	"errors"

	"bluff-board/internal/game"
	"bluff-board/internal/web"
)

// Inbound websocket events.
const (
	eventJoinGame          = "join_game"
	eventStartGame         = "start_game"
	eventGetGameState      = "get_game_state"
	eventGetMyCards        = "get_my_cards"
	eventPlayCard          = "play_card"
	eventCallBluff         = "call_bluff"
	eventNotCallBluff      = "not_call_bluff"
	eventForceChoiceAnswer = "force_choice_answer"
	eventEndTurn           = "end_turn_discard_draw"
	eventAdminReset        = "admin_reset_game"
)

// Outbound events owned by the server; game events come from the game package.
const (
	eventConnected = "connected"
	eventMyCards   = "my_cards"
	eventError     = "error"
	eventHTML      = "html"
)

var (
	errMalformedMessage = errors.New("訊息格式錯誤")
	errSlowDown         = errors.New("操作太頻繁，請稍候")
	errUnknownEvent     = errors.New("未知的事件")
	errAlreadyJoined    = errors.New("此連線已加入遊戲")
	errNotJoined        = errors.New("請先加入遊戲")
	errInvalidName      = errors.New("玩家名稱無效")
)

type connectedPayload struct {
	Message string `json:"message"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type myCardsPayload struct {
	Cards []game.Role `json:"cards"`
}

// htmlPayload swaps rendered markup into an element on the host page.
type htmlPayload struct {
	Target string `json:"target"`
	Swap   string `json:"swap"`
	HTML   string `json:"html"`
}

type joinRequest struct {
	PlayerName string `json:"player_name" binding:"required,name"`
}

type playCardRequest struct {
	Role   string     `json:"role" binding:"required,max=16"`
	Target string     `json:"target" binding:"max=20"`
	Extra  game.Extra `json:"extra"`
}

type promptRequest struct {
	PromptID string `json:"prompt_id" binding:"required,max=64"`
}

type forceChoiceRequest struct {
	Choice      string `json:"choice" binding:"max=16"`
	DiscardRole string `json:"discard_role" binding:"max=16"`
}

type endTurnRequest struct {
	DiscardRole string `json:"discard_role" binding:"max=16"`
}

var payloadMessages = bindMessages{
	"PlayerName": {"required": game.ErrNameRequired.Error(), "name": errInvalidName.Error()},
	"Role":       {"required": game.ErrUnknownCard.Error()},
	"PromptID":   {"required": errMalformedMessage.Error()},
}

func (s *Server) dispatch(client *wsClient, msg envelope) {
	var err error
	switch msg.Event {
	case eventJoinGame:
		err = s.onJoin(client, msg.Data)
	case eventStartGame:
		err = s.game.Start()
	case eventGetGameState:
		s.hub.Send(client, game.EventGameState, s.game.PublicState())
	case eventGetMyCards:
		err = s.onMyCards(client)
	case eventPlayCard:
		err = s.onPlayCard(client, msg.Data)
	case eventCallBluff, eventNotCallBluff:
		err = s.onPromptAnswer(client, msg.Event, msg.Data)
	case eventForceChoiceAnswer:
		err = s.onForceChoice(client, msg.Data)
	case eventEndTurn:
		err = s.onEndTurn(client, msg.Data)
	case eventAdminReset:
		err = s.onAdminReset(client)
	default:
		err = errUnknownEvent
	}
	if err != nil {
		s.sendError(client, err)
	}
}

func (s *Server) sendError(client *wsClient, err error) {
	s.hub.Send(client, eventError, errorPayload{Message: err.Error()})
}

// decodePayload reads and validates msg data. A missing body decodes as an empty object.
func decodePayload(data json.RawMessage, req any) error {
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, req); err != nil {
			return errMalformedMessage
		}
	}
	if err := validatePayload(req); err != nil {
		return errors.New(resolveBindError(err, payloadMessages, errMalformedMessage.Error()))
	}
	return nil
}

func (s *Server) boundPlayer(client *wsClient) (string, error) {
	player := client.Player()
	if player == "" {
		return "", errNotJoined
	}
	return player, nil
}

func (s *Server) onJoin(client *wsClient, data json.RawMessage) error {
	if client.Player() != "" {
		return errAlreadyJoined
	}
	var req joinRequest
	if err := decodePayload(data, &req); err != nil {
		return err
	}
	name, err := validateName(req.PlayerName)
	if err != nil {
		return errInvalidName
	}
	name, err = s.game.Join(name)
	if err != nil {
		return err
	}
	client.setPlayer(name)
	s.log.Info().Str("player", name).Msg("player joined")
	return nil
}

func (s *Server) onMyCards(client *wsClient) error {
	player, err := s.boundPlayer(client)
	if err != nil {
		return err
	}
	cards, ok := s.game.Cards(player)
	if !ok {
		return game.ErrUnknownPlayer
	}
	s.hub.Send(client, eventMyCards, myCardsPayload{Cards: cards})
	return nil
}

func (s *Server) onPlayCard(client *wsClient, data json.RawMessage) error {
	player, err := s.boundPlayer(client)
	if err != nil {
		return err
	}
	var req playCardRequest
	if err := decodePayload(data, &req); err != nil {
		return err
	}
	return s.game.PlayCard(player, game.Role(req.Role), req.Target, req.Extra)
}

func (s *Server) onPromptAnswer(client *wsClient, event string, data json.RawMessage) error {
	player, err := s.boundPlayer(client)
	if err != nil {
		return err
	}
	var req promptRequest
	if err := decodePayload(data, &req); err != nil {
		return err
	}
	if event == eventCallBluff {
		s.game.CallBluff(player, req.PromptID)
	} else {
		s.game.DeclineBluff(player, req.PromptID)
	}
	return nil
}

func (s *Server) onForceChoice(client *wsClient, data json.RawMessage) error {
	player, err := s.boundPlayer(client)
	if err != nil {
		return err
	}
	var req forceChoiceRequest
	if err := decodePayload(data, &req); err != nil {
		return err
	}
	s.game.AnswerForcedChoice(player, req.Choice, game.Role(req.DiscardRole))
	return nil
}

func (s *Server) onEndTurn(client *wsClient, data json.RawMessage) error {
	player, err := s.boundPlayer(client)
	if err != nil {
		return err
	}
	var req endTurnRequest
	if err := decodePayload(data, &req); err != nil {
		return err
	}
	return s.game.EndTurn(player, game.Role(req.DiscardRole))
}

func (s *Server) onAdminReset(client *wsClient) error {
	player, err := s.boundPlayer(client)
	if err != nil {
		return err
	}
	return s.game.AdminReset(player)
}

// Broadcast implements game.Notifier. Every state broadcast is followed by the
// rendered board regions.
func (s *Server) Broadcast(event string, payload any) {
	s.hub.Broadcast(event, payload)
	if event != game.EventGameState {
		return
	}
	st, ok := payload.(game.PublicState)
	if !ok {
		return
	}
	messages, err := regionMessages(st)
	if err != nil {
		s.log.Warn().Err(err).Msg("render board regions failed")
		return
	}
	s.hub.Broadcast(eventHTML, messages)
}

// SendTo implements game.Notifier.
func (s *Server) SendTo(player, event string, payload any) {
	s.hub.SendToPlayer(player, event, payload)
}

func regionMessages(st game.PublicState) ([]htmlPayload, error) {
	regions, err := web.RenderRegions(context.Background(), st.Board())
	if err != nil {
		return nil, err
	}
	messages := make([]htmlPayload, 0, len(regions))
	for _, region := range regions {
		messages = append(messages, htmlPayload{Target: "#" + region.ID, Swap: "inner", HTML: region.HTML})
	}
	return messages, nil
}
