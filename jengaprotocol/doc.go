// Package jengaprotocol is a client for the text command protocol of the
// Jenga tower simulation host.
//
// # Protocol Overview
//
// The host listens on TCP (port 25001 by default). Every command uses a
// fresh connection: the client writes one command with no terminator,
// reads one reply of at most 1024 bytes and closes the connection.
//
//	Request:   <verb>[ <arg1>[ <arg2>...]]
//	Response:  ACK | true | false | <number> | <status text>
//
// # Basic Usage
//
//	client := jengaprotocol.NewClient(jengaprotocol.DefaultHost, jengaprotocol.DefaultPort)
//
//	if _, err := client.Reset(); err != nil {
//	    log.Fatal(err)
//	}
//
//	shot, fallen, err := client.Step(jengaprotocol.RemoveAction{
//	    Level: 3,
//	    Color: jengaprotocol.ColorYellow,
//	}, jengaprotocol.DefaultSettleTime)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(shot, fallen)
//
// # Command Types
//
//   - Tower: NewRemoveCommand, NewResetCommand, NewIsFallenCommand, NewRevertStepCommand
//   - Physics: NewTimescaleCommand, NewStaticFrictionCommand, NewDynamicFrictionCommand, NewFallDetectDistanceCommand
//   - Observation: NewScreenshotResolutionCommand, NewBlocksInLevelCommand, NewAverageMaxTiltCommand, NewMostMaxTiltCommand
//   - Game flow: NewPlayerTurnCommand, NewToggleMenuCommand
//
// # Errors
//
// Failures to reach the host are *ConnectionError, undecodable replies are
// *ProtocolError, expired deadlines match ErrTimeout and a screenshot
// directory without exactly one image yields *ArtifactStateError. A reply
// to isfallen other than "true" is read as false rather than an error.
//
// # Thread Safety
//
// A Client holds only immutable settings and opens a connection per call,
// so independent clients never interfere. The Step workflow issues several
// commands in sequence and should not be interleaved with other commands on
// the same tower.
package jengaprotocol
