package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func Home() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Regex Game</title>
    <style>`+highlightStyles+`</style>
  </head>
  <body>
    <main class="shell">
      <header class="hero">
        <h1>Regex Game</h1>
        <p>Match the highlighted characters exactly. Nothing more, nothing less.</p>
      </header>

      <section class="panel">
        <h2>Host a game</h2>
        <button id="createGame">Create game</button>
        <div id="createResult" class="result"></div>
      </section>

      <section class="panel">
        <h2>Join a game</h2>
        <form id="joinForm">
          <input name="code" placeholder="Join code" autocomplete="off" required/>
          <input name="name" placeholder="Display name" autocomplete="name" required/>
          <button type="submit">Join game</button>
        </form>
        <div id="joinResult" class="result"></div>
      </section>
    </main>

    <script>
      const uidKey = "regex_game_uid";
      const hostKey = "regex_game_host";
      const uid = localStorage.getItem(uidKey) || crypto.randomUUID();
      localStorage.setItem(uidKey, uid);

      document.getElementById("createGame").addEventListener("click", async () => {
        const out = document.getElementById("createResult");
        out.textContent = "Creating game...";
        const token = localStorage.getItem(hostKey) || "";
        const res = await fetch("/api/games", {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({ host_token: token })
        });
        const data = await res.json();
        if (!res.ok) {
          out.textContent = data.error || "Failed to create game.";
          return;
        }
        localStorage.setItem(hostKey, data.host_token);
        out.textContent = "Game created. Join code: " + data.join_code;
      });

      const joinForm = document.getElementById("joinForm");
      const joinPath = window.location.pathname.match(/^\/join\/([A-Za-z0-9]+)/);
      if (joinPath) {
        joinForm.elements.code.value = joinPath[1].toUpperCase();
      }
      joinForm.addEventListener("submit", async (event) => {
        event.preventDefault();
        const out = document.getElementById("joinResult");
        out.textContent = "Joining game...";
        const res = await fetch("/api/join", {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({
            join_code: joinForm.elements.code.value.trim().toUpperCase(),
            name: joinForm.elements.name.value.trim(),
            uid
          })
        });
        const data = await res.json();
        if (!res.ok) {
          out.textContent = data.error || "Failed to join game.";
          return;
        }
        out.textContent = "Joined game " + data.game_id + ".";
      });
    </script>
  </body>
</html>
`)
		return err
	})
}
