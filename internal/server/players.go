package server

import "log"

// JoinGame resumes the player already registered under uid, renaming them,
// or registers a new player with a clean score.
func (s *Server) JoinGame(joinCode, name, uid string) (JoinedGame, error) {
	cleanName, err := validateName(name)
	if err != nil {
		return JoinedGame{}, invalidInput(err.Error())
	}
	cleanUID, err := validateUID(uid)
	if err != nil {
		return JoinedGame{}, invalidInput(err.Error())
	}
	gameID, ok := s.store.FindGameByJoinCode(joinCode)
	if !ok {
		return JoinedGame{}, errGameNotFound
	}

	var joined JoinedGame
	err = s.store.UpdateGame(gameID, func(game *Game) error {
		joined = JoinedGame{GameID: game.ID, JoinCode: game.JoinCode}
		if player, idx := findPlayerByUID(game, cleanUID); player != nil {
			renamed := *player
			renamed.Name = cleanName
			if renamed.Name != player.Name {
				if err := s.persistPlayerName(game, &renamed); err != nil {
					return err
				}
			}
			game.Players[idx] = renamed
			joined.PlayerID = renamed.ID
			joined.Resumed = true
			return nil
		}
		if game.Status == statusFinished {
			return errAlreadyFinished
		}
		player := Player{
			ExternalUID:                cleanUID,
			Name:                       cleanName,
			LastFullScoreQuestionIndex: -1,
			JoinedAt:                   s.now(),
		}
		if err := s.persistPlayer(game, &player); err != nil {
			return err
		}
		player.ID = s.store.newPlayerID(player.DBID)
		game.Players = append(game.Players, player)
		joined.PlayerID = player.ID
		return nil
	})
	if err != nil {
		return JoinedGame{}, err
	}
	if joined.Resumed {
		log.Printf("player rejoined game_id=%s player_id=%d", gameID, joined.PlayerID)
	} else {
		log.Printf("player joined game_id=%s player_id=%d", gameID, joined.PlayerID)
	}
	s.broadcastGame(gameID)
	return joined, nil
}

// KickPlayer removes the player and every submission they made. Their uid
// may join again as a new player.
func (s *Server) KickPlayer(gameID, hostToken string, playerID int) error {
	err := s.store.UpdateGame(gameID, func(game *Game) error {
		if err := authorizeHost(game, hostToken); err != nil {
			return err
		}
		player, idx := findPlayer(game, playerID)
		if player == nil {
			return errPlayerNotFound
		}
		if err := s.persistKick(game, player); err != nil {
			return err
		}
		kept := game.Submissions[:0:0]
		for _, submission := range game.Submissions {
			if submission.PlayerID != playerID {
				kept = append(kept, submission)
			}
		}
		game.Submissions = kept
		game.Players = append(game.Players[:idx:idx], game.Players[idx+1:]...)
		game.KickedPlayers[playerID] = struct{}{}
		return nil
	})
	if err != nil {
		return err
	}
	log.Printf("player kicked game_id=%s player_id=%d", gameID, playerID)
	s.broadcastGame(gameID)
	return nil
}

func findPlayerByUID(game *Game, uid string) (*Player, int) {
	for i := range game.Players {
		if game.Players[i].ExternalUID == uid {
			return &game.Players[i], i
		}
	}
	return nil, -1
}

func callerStatus(game *Game, playerID int) string {
	if playerID <= 0 {
		return callerUnknown
	}
	if player, _ := findPlayer(game, playerID); player != nil {
		return callerOK
	}
	if _, kicked := game.KickedPlayers[playerID]; kicked {
		return callerKicked
	}
	return callerUnknown
}
