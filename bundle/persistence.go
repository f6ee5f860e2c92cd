package bundle

import (
	"encoding/gob"
	"os"

	"github.com/socialpulse/addictml/pkg/errors"
	"github.com/socialpulse/addictml/regressor"
)

// Gob transmits the Model field as an interface value, so every concrete
// regressor the trainer may select has to be registered up front.
func init() {
	gob.Register(&regressor.LinearRegression{})
	gob.Register(&regressor.RandomForestRegressor{})
	gob.Register(&regressor.KNNRegressor{})
	gob.Register(&regressor.SVR{})
	gob.Register(&regressor.GradientBoostingRegressor{})
}

// Save はモデルパッケージをファイルに保存する
//
// パラメータ:
//   - pkg: 保存するモデルパッケージ
//   - path: 保存先のファイルパス
//
// 戻り値:
//   - error: 保存に失敗した場合のエラー
func Save(pkg *ModelPackage, path string) error {
	if err := pkg.Validate(); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "bundle: create %s", path)
	}
	defer file.Close()

	encoder := gob.NewEncoder(file)
	if err := encoder.Encode(pkg); err != nil {
		return errors.Wrapf(err, "bundle: encode %s", path)
	}

	return nil
}

// Load はファイルからモデルパッケージを読み込む。
// ファイルの欠落・破損・不変条件違反はいずれもModelUnavailableErrorになる。
func Load(path string) (*ModelPackage, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewModelUnavailableError(path, err)
	}
	defer file.Close()

	var pkg ModelPackage
	decoder := gob.NewDecoder(file)
	if err := decoder.Decode(&pkg); err != nil {
		return nil, errors.NewModelUnavailableError(path, err)
	}

	if err := pkg.Validate(); err != nil {
		return nil, errors.NewModelUnavailableError(path, err)
	}
	return &pkg, nil
}
