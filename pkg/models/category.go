/*
 * Copyright 2026 Nullgrid Labs.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package models

import "time"

// HostCategory classifies a host in the simulated internet. The set is
// closed; the derivation tables below switch over every member so adding a
// category is a compile-visible change.
type HostCategory string

const (
	CategoryPersonal       HostCategory = "personal"
	CategoryNPC            HostCategory = "npc"
	CategoryBank           HostCategory = "bank"
	CategoryCorporation    HostCategory = "corporation"
	CategoryISP            HostCategory = "isp"
	CategoryLawEnforcement HostCategory = "law_enforcement"
	CategoryNews           HostCategory = "news"
	CategoryUniversity     HostCategory = "university"
	CategoryDirectory      HostCategory = "directory"
	CategoryDownloadCenter HostCategory = "download_center"
)

// Categories lists every host category.
func Categories() []HostCategory {
	return []HostCategory{
		CategoryPersonal,
		CategoryNPC,
		CategoryBank,
		CategoryCorporation,
		CategoryISP,
		CategoryLawEnforcement,
		CategoryNews,
		CategoryUniversity,
		CategoryDirectory,
		CategoryDownloadCenter,
	}
}

// TraceTime returns the category baseline for how long tracing a connection
// back from the host takes. Assigned once at host creation and fixed
// thereafter, independent of route shape.
func TraceTime(category HostCategory) time.Duration {
	switch category {
	case CategoryPersonal:
		return 30 * time.Second
	case CategoryNPC:
		return 60 * time.Second
	case CategoryCorporation:
		return 120 * time.Second
	case CategoryBank:
		return 180 * time.Second
	case CategoryLawEnforcement:
		return 300 * time.Second
	case CategoryISP, CategoryNews, CategoryUniversity, CategoryDirectory, CategoryDownloadCenter:
		return 90 * time.Second
	default:
		return 90 * time.Second
	}
}

// OpenPorts returns the ports a scan reports open for the category.
func OpenPorts(category HostCategory) []int {
	switch category {
	case CategoryPersonal:
		return []int{22, 80}
	case CategoryBank:
		return []int{22, 80, 443, 1521}
	case CategoryCorporation:
		return []int{22, 80, 443, 3306}
	case CategoryLawEnforcement:
		return []int{22, 443}
	case CategoryNPC, CategoryISP, CategoryNews, CategoryUniversity, CategoryDirectory, CategoryDownloadCenter:
		return []int{22, 80, 443}
	default:
		return []int{22, 80, 443}
	}
}
