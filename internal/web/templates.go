package web

import (
	"bytes"
	"html/template"

	"github.com/jaminalder/tictactoe-timetravel/internal/app"
	"github.com/jaminalder/tictactoe-timetravel/internal/domain"
)

type templates struct {
	game  *template.Template
	frag  *template.Template
	index *template.Template
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tic-Tac-Toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org@1.9.12/dist/ext/sse.js"></script>
<style>
.board-row { display: flex; }
.board-row form { margin: 0; }
.square { width: 34px; height: 34px; font-weight: bold; font-size: 24px; }
.square.winning { background: #ff0; }
.history-button.current { font-weight: bold; }
.game { display: flex; gap: 20px; }
</style>
</head><body>{{template "content" .}}</body></html>`))
	// the game fragment lives in the same set so the page can include it
	template.Must(base.New("game").Parse(gameTemplate))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Tic-Tac-Toe</h1><form action="/game" method="post"><button>New game</button></form>`))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" sse-connect="/game/{{.ID}}/events">
  <div sse-swap="game">{{template "game" .}}</div>
</div>`))
	// standalone fragment used for htmx swaps and broadcasts
	frag := template.Must(template.New("game_only").Parse(gameTemplate))
	return &templates{game: game, frag: frag, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
	var buf bytes.Buffer
	if name == "" {
		_ = t.Execute(&buf, data)
	} else {
		_ = t.ExecuteTemplate(&buf, name, data)
	}
	return buf.Bytes()
}

const gameTemplate = `
<div id="game" class="game">
  <div class="game-board">
  {{range $row := .Rows}}
    <div class="board-row">
    {{range $row}}
      <form hx-post="/game/{{$.ID}}/move" hx-target="#game" hx-swap="outerHTML" method="post">
        <input type="hidden" name="cell" value="{{.Index}}">
        <button type="submit" class="square{{if .Winning}} winning{{end}}">{{.Value}}</button>
      </form>
    {{end}}
    </div>
  {{end}}
  </div>
  <div class="game-info">
    <div class="status">{{.Status}}</div>
    <form hx-post="/game/{{.ID}}/order" hx-target="#game" hx-swap="outerHTML" method="post">
      <button type="submit" class="order-toggle">toggle step order ({{if .Ascending}}ascending{{else}}descending{{end}})</button>
    </form>
    <ol>
    {{range .Moves}}
      <li>
        <form hx-post="/game/{{$.ID}}/jump" hx-target="#game" hx-swap="outerHTML" method="post">
          <input type="hidden" name="step" value="{{.Step}}">
          <button type="submit" class="history-button{{if .Current}} current{{end}}">{{.Label}}</button>
        </form>
      </li>
    {{end}}
    </ol>
  </div>
</div>
`

// gameView is the template data for one game fragment.
type gameView struct {
	ID        string
	Status    string
	Rows      [][]domain.Square
	Moves     []domain.MoveItem
	Ascending bool
}

func newGameView(gs app.GameState) gameView {
	squares := gs.Game.Squares()
	rows := make([][]domain.Square, 0, 3)
	for r := 0; r < 3; r++ {
		rows = append(rows, squares[r*3:r*3+3])
	}
	return gameView{
		ID:        gs.ID,
		Status:    gs.Game.Status(),
		Rows:      rows,
		Moves:     gs.Game.MoveList(),
		Ascending: gs.Game.Ascending(),
	}
}
