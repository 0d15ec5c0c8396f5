package game

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/notnil/chess"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var tagPairRe = regexp.MustCompile(`^\[(\w+)\s+"(.*)"\]\s*$`)

/*
Corpus files are PGN streams: any number of games, each a block of [Tag "..."]
pairs followed by movetext. Standard games carry SAN movetext and go through
notnil/chess; Crazyhouse and Horde dumps carry coordinate movetext (including
drops like N@f3) that the library cannot read, so those are tokenized here.

One broken game must never poison the rest of the file. The stream is split
into raw per-game chunks first and each chunk parses on its own, so a parse
failure logs a warning and skips exactly that game.
*/

// ReadCorpus scans one PGN stream and calls visit for every game it can
// parse. Malformed games are logged and counted in skipped. An error from
// visit aborts the scan and is returned as-is.
func ReadCorpus(r io.Reader, visit func(*Game) error) (skipped int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var (
		chunk      strings.Builder
		inMovetext bool
		hasContent bool
		n          int
	)
	flush := func() error {
		if !hasContent {
			return nil
		}
		n++
		text := chunk.String()
		chunk.Reset()
		inMovetext = false
		hasContent = false

		g, perr := parseGame(text)
		if perr != nil {
			skipped++
			log.Warn().Err(perr).Int("game", n).Msg("skipping malformed game")
			return nil
		}
		return visit(g)
	}

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		isTag := tagPairRe.MatchString(trimmed)
		if isTag && inMovetext {
			if err := flush(); err != nil {
				return skipped, err
			}
		}
		if trimmed != "" {
			hasContent = true
			if !isTag {
				inMovetext = true
			}
		}
		chunk.WriteString(line)
		chunk.WriteByte('\n')
	}
	if serr := scanner.Err(); serr != nil {
		return skipped, errors.Wrap(serr, "reading corpus")
	}
	return skipped, flush()
}

// parseGame turns one raw PGN chunk into a Game. Unsupported variants return
// a moveless Game rather than an error so callers can count them apart from
// malformed input.
func parseGame(text string) (*Game, error) {
	tags := map[string]string{}
	var movetext strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if m := tagPairRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			tags[m[1]] = m[2]
			continue
		}
		// Export escapes and ;-comments run to end of line.
		if strings.HasPrefix(line, "%") {
			continue
		}
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = line[:i]
		}
		movetext.WriteString(line)
		movetext.WriteByte('\n')
	}

	g := &Game{
		Variant: VariantFromTag(tags["Variant"]),
		Result:  tags["Result"],
		Tags:    tags,
	}
	if g.Result == "" {
		g.Result = ResultUnknown
	}
	if fen := tags["FEN"]; fen != "" {
		g.SetupFEN = fen
	}
	if g.Variant == VariantUnsupported {
		return g, nil
	}

	startWhite := true
	if g.SetupFEN != "" {
		fields := strings.Fields(g.SetupFEN)
		if len(fields) < 2 {
			return nil, errors.Errorf("invalid FEN tag %q", g.SetupFEN)
		}
		startWhite = fields[1] == "w"
	}

	if g.Variant == VariantStandard {
		if pgnOpt, err := chess.PGN(strings.NewReader(text)); err == nil {
			cg := chess.NewGame(pgnOpt)
			for _, mv := range cg.Moves() {
				g.Moves = append(g.Moves, fromChessMove(mv))
			}
			if g.Result == ResultUnknown {
				g.Result = string(cg.Outcome())
			}
			return g, nil
		}
		// Some exporters write coordinate movetext that the SAN decoder
		// rejects; fall through to the tokenizer for those.
	}

	moves, result, err := parseCoordinateMovetext(movetext.String(), startWhite)
	if err != nil {
		return nil, err
	}
	g.Moves = moves
	if g.Result == ResultUnknown && result != "" {
		g.Result = result
	}
	return g, nil
}

// parseCoordinateMovetext reads coordinate movetext without a board model.
// Castling arrives as O-O words whose side depends on whose turn it is, so
// the caller supplies who moves first. The second return is the result
// terminator when the movetext carries one.
func parseCoordinateMovetext(movetext string, startWhite bool) ([]Move, string, error) {
	var moves []Move
	inComment := false
	for _, tok := range strings.Fields(movetext) {
		if inComment {
			if i := strings.IndexByte(tok, '}'); i >= 0 {
				inComment = false
				tok = tok[i+1:]
			} else {
				continue
			}
		}
		if i := strings.IndexByte(tok, '{'); i >= 0 {
			// Comments may span tokens; anything up to the brace still counts.
			rest := tok[i+1:]
			tok = tok[:i]
			if strings.IndexByte(rest, '}') < 0 {
				inComment = true
			}
		}
		tok = cleanMoveToken(tok)
		switch {
		case tok == "":
			continue
		case strings.HasPrefix(tok, "$"):
			continue
		case tok == ResultWhiteWins || tok == ResultBlackWins || tok == ResultDraw || tok == ResultUnknown:
			return moves, tok, nil
		case strings.ContainsAny(tok, "()"):
			return nil, "", errors.New("movetext contains variations")
		case isMoveNumber(tok):
			continue
		}

		if tok == "O-O" || tok == "O-O-O" || tok == "0-0" || tok == "0-0-0" {
			white := startWhite
			if len(moves)%2 == 1 {
				white = !white
			}
			moves = append(moves, castleMove(white, strings.Count(tok, "-") == 1))
			continue
		}

		m, err := ParseMove(tok)
		if err != nil {
			return nil, "", errors.Wrapf(err, "movetext token %d", len(moves)+1)
		}
		moves = append(moves, m)
	}
	return moves, "", nil
}

// cleanMoveToken strips annotation glyphs and the "=" of promotion suffixes.
func cleanMoveToken(tok string) string {
	tok = strings.TrimRight(tok, "+#!?")
	return strings.ReplaceAll(tok, "=", "")
}

func isMoveNumber(tok string) bool {
	digits := 0
	for digits < len(tok) && tok[digits] >= '0' && tok[digits] <= '9' {
		digits++
	}
	if digits == 0 {
		return tok == "..." || tok == "."
	}
	return strings.Trim(tok[digits:], ".") == ""
}

// castleMove renders castling in the two-file king form, which both trackers
// recognize.
func castleMove(white, kingside bool) Move {
	from, to := E1, G1
	if !kingside {
		to = C1
	}
	if !white {
		from += 56
		to += 56
	}
	return Move{From: from, To: to}
}
