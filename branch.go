package bitable

import "go.uber.org/zap"

// addPageToBranch cascades a promoted separator key up the branch levels
// (§4.2.3). A new level is only ever introduced one above the current top;
// overflow at a level flushes that level's page, cascades the same key one
// level higher, then starts a fresh group at this level.
func (w *Writer) addPageToBranch(key []byte, level uint32) error {
	if level >= MaxBranchLevels {
		return ErrMaxTableTreeDepth
	}

	if w.branch[level] == nil {
		file, err := createWritableFile(w.paths.Branch[level])
		if err != nil {
			return err
		}

		w.branchFiles[level] = file
		w.branch[level] = newBranchPageBuilder(w.pageSize)
		w.branch[level].startLevel(key, w.keyAlignment)
		w.childCount[level] = 2
		w.depth = level + 1

		w.logger.Info("branch level created", zap.Uint32("level", level))
		return nil
	}

	b := w.branch[level]
	newLeft, newRight := b.planSeparator(uint16(len(key)), w.keyAlignment)

	if b.fits(newLeft, newRight) {
		b.appendSeparator(key, newLeft, newRight)
		w.childCount[level]++
		return nil
	}

	nextFirstChild := b.firstChildPage + w.childCount[level]

	if err := w.flushBranch(level); err != nil {
		return err
	}
	if err := w.addPageToBranch(key, level+1); err != nil {
		return err
	}

	b.startGroup(nextFirstChild)
	w.childCount[level] = 1

	return nil
}

func (w *Writer) flushBranch(level uint32) error {
	if _, err := w.branchFiles[level].Write(w.branch[level].bytes()); err != nil {
		return err
	}
	w.logger.Debug("branch page flushed", zap.Uint32("level", level))
	return nil
}
