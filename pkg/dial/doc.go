/*
Package dial interprets the text a subscriber dials or enters.

A dial string is composed of '*'-separated segments optionally terminated with '#'
(for example "*920*1806*2#"). Tokens splits it into its segments and Classify maps
the segment count, together with the gateway's first-contact flag, onto a single
entry Mode that the engine matches exhaustively.
*/
package dial
