/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import "sync/atomic"

// idCounter is process-wide monotonic state shared by parser and synchronizer.
// Single-writer sessions only; production code must never reset it mid-session.
var idCounter atomic.Int64

func nextNodeID() NodeID { return NodeID(idCounter.Add(1)) }

// ResetNodeIDs resets the id counter to zero. Test determinism only.
func ResetNodeIDs() { idCounter.Store(0) }

// Constructors allocate the next id and default every optional field to
// absent (empty string / nil), so the generator can tell "not specified"
// apart from "specified as empty".

func NewLabel(name string, params []string) *Label {
	return &Label{baseStmt: baseStmt{id: nextNodeID()}, Name: name, Params: params}
}

func NewDialogue(speaker, text string) *Dialogue {
	return &Dialogue{baseStmt: baseStmt{id: nextNodeID()}, Speaker: speaker, Text: text}
}

func NewMenu() *Menu {
	return &Menu{baseStmt: baseStmt{id: nextNodeID()}}
}

func NewMenuChoice(text string) *MenuChoice {
	return &MenuChoice{Text: text}
}

func NewScene(image string) *Scene {
	return &Scene{baseStmt: baseStmt{id: nextNodeID()}, Image: image}
}

func NewShow(image string) *Show {
	return &Show{baseStmt: baseStmt{id: nextNodeID()}, Image: image}
}

func NewHide(image string) *Hide {
	return &Hide{baseStmt: baseStmt{id: nextNodeID()}, Image: image}
}

func NewWith(transition string) *With {
	return &With{baseStmt: baseStmt{id: nextNodeID()}, Transition: transition}
}

func NewJump(target string) *Jump {
	return &Jump{baseStmt: baseStmt{id: nextNodeID()}, Target: target}
}

func NewCall(target string) *Call {
	return &Call{baseStmt: baseStmt{id: nextNodeID()}, Target: target}
}

func NewReturn() *Return {
	return &Return{baseStmt: baseStmt{id: nextNodeID()}}
}

func NewIf(condition string) *If {
	return &If{baseStmt: baseStmt{id: nextNodeID()}, Branches: []*IfBranch{{Condition: condition}}}
}

func NewSet(name, operator, value string) *Set {
	return &Set{baseStmt: baseStmt{id: nextNodeID()}, Name: name, Operator: operator, Value: value}
}

func NewPython(code string, block bool) *Python {
	return &Python{baseStmt: baseStmt{id: nextNodeID()}, Code: code, Block: block}
}

func NewDefine(name, value string) *Define {
	return &Define{baseStmt: baseStmt{id: nextNodeID()}, Name: name, Value: value}
}

func NewDefault(name, value string) *Default {
	return &Default{baseStmt: baseStmt{id: nextNodeID()}, Name: name, Value: value}
}

func NewPlay(channel, file string) *Play {
	return &Play{baseStmt: baseStmt{id: nextNodeID()}, Channel: channel, File: file}
}

func NewStop(channel string) *Stop {
	return &Stop{baseStmt: baseStmt{id: nextNodeID()}, Channel: channel}
}

func NewPause(duration string) *Pause {
	return &Pause{baseStmt: baseStmt{id: nextNodeID()}, Duration: duration}
}

func NewNVL(action string) *NVL {
	return &NVL{baseStmt: baseStmt{id: nextNodeID()}, Action: action}
}

func NewRaw(text string) *Raw {
	return &Raw{baseStmt: baseStmt{id: nextNodeID()}, Text: text}
}
