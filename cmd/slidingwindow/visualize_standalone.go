package main

import "fmt"

// visualizeSlidingWindow prints an ASCII trace of the window sliding as
// packets arrive. Purely illustrative: it has no connection to the real
// rlnc.Decoder used elsewhere in this command.
func visualizeSlidingWindow() {
	fmt.Println("Sliding Window RLNC - Window Movement")
	fmt.Println("=====================================")

	window := make([]int, 0, windowSize*2)
	base := 0

	fmt.Printf("Window size: %d | D=Data packet, C=Coded packet\n\n", windowSize)

	for i := 0; i < 12; i++ {
		window = append(window, i)
		fmt.Printf("Step %2d: Add D%d  ", i+1, i)

		fmt.Printf("Window: [")
		for j := 0; j < windowSize; j++ {
			if j < len(window) {
				if j < len(window)-windowSize/2 {
					fmt.Printf("D%d ", window[j])
				} else {
					fmt.Printf("C%d ", window[j])
				}
			} else {
				fmt.Printf("   ")
			}
		}
		fmt.Printf("] Base: %d\n", base)

		if i%4 == 3 && len(window) > windowSize {
			slide := 2
			window = window[slide:]
			base += slide
			fmt.Printf("       → Slide window by %d\n", slide)
		}
	}
}

// visualizeSystematicCoding prints the interleaving pattern between
// systematic passthrough packets and coded packets.
func visualizeSystematicCoding() {
	fmt.Println("\nSystematic Coding Pattern")
	fmt.Println("=========================")

	codingRate := 0.5
	fmt.Printf("Coding rate: %.1f (1 coded packet per %.0f data packets)\n\n", codingRate, 1/codingRate)

	fmt.Println("Transmission: D1 D1 C1 D2 D2 C2 D3 D3 C3 D4 D4 C4")
	fmt.Println("             ↑  ↑  ↑  ↑  ↑  ↑  ↑  ↑  ↑  ↑  ↑  ↑")
	fmt.Println("             │  │  │  │  │  │  │  │  │  │  │  └─ Coded packet")
	fmt.Println("             │  │  │  │  │  │  │  │  │  │  └───── Data packet")
	fmt.Println("             │  │  │  │  │  │  │  │  │  └──────── Data packet")
	fmt.Println("             │  │  │  │  │  │  │  │  └─────────── Coded packet")
	fmt.Println("             └──┴──┴──┴──┴──┴──┴──┴────────────── Data and coded packets")
}

// visualizeBlockComparison prints a side-by-side summary of the two
// strategies main.go actually measures via simulateSlidingWindowRLNC and
// simulateBlockRLNC.
func visualizeBlockComparison() {
	fmt.Println("\nBlock-based vs Sliding Window")
	fmt.Println("=============================")

	fmt.Println("Block-based RLNC:")
	fmt.Println("  [D1][D2][D3][D4] → [C1][C2][C3][C4] → Wait for all → Decode")
	fmt.Println("  Blocking delay: must wait for the whole batch before decoding")
	fmt.Println()

	fmt.Println("Sliding Window RLNC:")
	fmt.Println("  D1 → C1 → D2 → C2 → D3 → C3 → ... → Decode when possible")
	fmt.Println("  No blocking delay: decodes as soon as rank reaches K")
	fmt.Println()

	fmt.Println("Key Differences:")
	fmt.Println("  • Block-based: fixed batch, blocking delay")
	fmt.Println("  • Sliding Window: progressive delivery, no blocking delay")
	fmt.Println("  • Block-based: all-or-nothing decoding")
	fmt.Println("  • Sliding Window: progressive decoding")
}

// runVisualizations dispatches the --viz flag's value to one or more of the
// ASCII visualizations above.
func runVisualizations(which string) {
	switch which {
	case "window":
		visualizeSlidingWindow()
	case "coding":
		visualizeSystematicCoding()
	case "blocks":
		visualizeBlockComparison()
	case "all":
		visualizeSlidingWindow()
		visualizeSystematicCoding()
		visualizeBlockComparison()
	default:
		fmt.Printf("unknown -viz value %q: want window, coding, blocks, or all\n", which)
	}
}
