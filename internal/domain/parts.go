package domain

// Building blocks the per-kind movement patterns are assembled from.

// straight walks every radial direction that is defined on the current face.
func straight(from Coordinates, maxDist, maxEdgeCrossings, sideLength uint32, units *Units) []Coordinates {
	var out []Coordinates
	for _, r := range RadialDirections {
		out = append(out, walkRadial(from, r, maxDist, maxEdgeCrossings, sideLength, units, true)...)
	}
	return out
}

// walkRadial follows r until a budget runs out, the walk revisits a cell, or
// it meets a unit. The occupied cell is included only with includeOccupied.
func walkRadial(from Coordinates, r RadialDirection, maxDist, maxEdgeCrossings, sideLength uint32, units *Units, includeOccupied bool) []Coordinates {
	var out []Coordinates
	visited := map[Coordinates]struct{}{from: {}}
	cur := from
	var dist, crossings uint32
	for {
		next, crossed, ok := cur.StepRadial(r, sideLength)
		if !ok {
			break
		}
		if _, seen := visited[next]; seen {
			break
		}
		visited[next] = struct{}{}

		dist++
		if crossed {
			crossings++
		}
		if dist > maxDist || crossings > maxEdgeCrossings {
			break
		}

		occupied := units.IsOccupied(next)
		if occupied && !includeOccupied {
			break
		}
		out = append(out, next)
		if occupied {
			break
		}
		cur = next
	}
	return out
}

// diagonals walks each of the 12 direction pairs with the same budgets and
// blocking rules as straight.
func diagonals(from Coordinates, maxDist, maxEdgeCrossings, sideLength uint32, units *Units) []Coordinates {
	var out []Coordinates
	for _, pair := range Diagonals {
		visited := map[Coordinates]struct{}{from: {}}
		cur := from
		var dist, crossings uint32
		for {
			next, crossed, ok := cur.Diagonal(pair, sideLength)
			if !ok {
				break
			}
			if _, seen := visited[next]; seen {
				break
			}
			visited[next] = struct{}{}

			dist++
			if crossed {
				crossings++
			}
			if dist > maxDist || crossings > maxEdgeCrossings {
				break
			}
			out = append(out, next)
			if units.IsOccupied(next) {
				break
			}
			cur = next
		}
	}
	return out
}

// knightLeaps goes two cells in each radial direction, then one cell to
// either side. Leaps ignore blocking units.
func knightLeaps(from Coordinates, maxEdgeCrossings, sideLength uint32) []Coordinates {
	var out []Coordinates
	normal := from.Normal()
	for _, r := range RadialDirections {
		forward, ok := r.ToCartesian(normal)
		if !ok {
			continue
		}
		mid, crossed, ok := from.StepRadial(r, sideLength)
		if !ok {
			continue
		}
		var crossings uint32
		if crossed {
			crossings++
		}
		// The second step stays on the same ring, so it is always defined.
		two, crossed, ok := mid.StepRadial(r, sideLength)
		if !ok {
			continue
		}
		if crossed {
			crossings++
		}
		if crossings > maxEdgeCrossings {
			continue
		}

		side, _ := forward.Cross(normal)
		for _, d := range []CartesianDirection{side, side.Opposite()} {
			to, crossed, ok := two.Step(d, sideLength)
			if !ok {
				continue
			}
			if crossed && crossings+1 > maxEdgeCrossings {
				continue
			}
			out = append(out, to)
		}
	}
	return out
}
