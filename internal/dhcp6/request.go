/*
Copyright 2026 jr42.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package dhcp6

// Request is the caller-supplied bundle of desired acquisition parameters
// (spec.md §3 "Request"). Ownership transfers to the Device once set via
// Device.Acquire; replacing or clearing it frees the prior value.
type Request struct {
	UUID           [16]byte
	InfoOnly       bool
	RapidCommit    bool
	Update         UpdateFlag
	PreferredDUID  string // hex-encoded, optional
	Hostname       string
	IAList         []IADescriptor // nil means "synthesize one IA_NA from the device IAID"
}
