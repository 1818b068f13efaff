/*
Package runner plays the gateway role against a dialog engine.

It reads one dial string per line, wraps it in a gateway request carrying a
simulated session identifier and relays the engine's answer back through a
pluggable handler. A session ends when the engine stops continuing or fails, and
the next line opens a new one with the first-contact flag set.

# Key Components

  - Runner: the request loop.
  - IOHandler: decouples how lines are read and answers shown.
  - TextHandler: interactive terminal use.
  - JSONHandler: JSON-Lines for scripted use.

# Usage

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
		runner.WithSubscriber("acme", "233240000000"),
	)

	if err := r.Run(ctx, engine); err != nil {
		log.Fatal(err)
	}
*/
package runner
