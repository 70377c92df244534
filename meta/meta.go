// meta/meta.go
package meta

// ROWS and COLS define the default grid.
const ROWS = 3
const COLS = 3

// WIN_LENGTH defines the run of identical pieces that wins the game.
const WIN_LENGTH = 3

// BUDGET defines the number of completed rollouts per search.
const BUDGET = 5000

// EXPLORATION defines the UCB1 exploration constant.
const EXPLORATION = 2.0

// GAMES defines the number of games per arena matchup.
const GAMES = 20

// WORKERS defines how many arena games run at once.
const WORKERS = 4

// AGENT_ADDR defines the listen address of the agent server.
const AGENT_ADDR = ":8080"

// OUT_DIR defines where arena results are written.
const OUT_DIR = "experiments"
